package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/vault"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Setup prompts for a master password twice and initializes the vault.
// Both password copies are wiped before returning. On success the vault is
// unlocked and the reminder loop starts.
func (a *App) Setup(ctx context.Context) error {
	password, err := getPassword(os.Stdout, "Choose a master password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(os.Stdout, "Repeat the master password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := a.vault.Setup(ctx, password, confirm); err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			fmt.Println(err.Error())
		case errors.Is(err, common.ErrAlreadyInitialized):
			fmt.Println("Already set up. Use 'unlock'.")
		default:
			a.log.Error(ctx, "setup failed", "error", err)
		}
		return err
	}

	fmt.Println("Your journal is ready.")
	a.startRemindersLoop(ctx)
	return nil
}

// Unlock prompts for the master password and unlocks the vault.
// The password is wiped before returning.
func (a *App) Unlock(ctx context.Context) error {
	password, err := getPassword(os.Stdout, "Enter master password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.vault.Unlock(ctx, password); err != nil {
		switch {
		case errors.Is(err, common.ErrAuthentication):
			fmt.Println("Wrong password.")
		case errors.Is(err, common.ErrNotFound):
			fmt.Println("Not set up yet. Use 'setup'.")
		default:
			a.log.Error(ctx, "unlock failed", "error", err)
		}
		return err
	}

	fmt.Println("Unlocked.")
	a.startRemindersLoop(ctx)
	return nil
}

// LockVault discards the session key and stops the reminder loop.
func (a *App) LockVault(ctx context.Context) {
	if a.vault.State() != vault.StateUnlocked {
		fmt.Println("Nothing to lock.")
		return
	}
	a.stopRemindersLoop()
	a.vault.Lock()
	fmt.Println("Locked.")
}
