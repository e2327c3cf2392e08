package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/daybook/internal/vault"
)

func (a *App) getStatus() string {
	switch a.vault.State() {
	case vault.StateAwaitingSetup:
		return "new"
	case vault.StateUnlocked:
		return "unlocked"
	default:
		return "locked"
	}
}

// Root runs the interactive command loop. It reads a line, parses the first
// token as the command and dispatches to methods on a. The loop exits on
// input EOF or when the user types "exit" or "quit".
func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to Daybook (type 'help' for commands)")

	for {
		fmt.Printf("daybook (%s)> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()

		case "setup":
			a.Setup(ctx)
		case "unlock":
			a.Unlock(ctx)
		case "lock":
			a.LockVault(ctx)

		case "write":
			a.writeJournal(ctx)
		case "journal":
			a.listJournal(ctx)
		case "deljournal":
			a.deleteJournal(ctx, args)

		case "addtask":
			a.addTask(ctx)
		case "tasks":
			a.listTasks(ctx)
		case "toggle":
			a.toggleTask(ctx, args)
		case "deltask":
			a.deleteTask(ctx, args)

		case "addevent":
			a.addEvent(ctx)
		case "events":
			a.listEvents(ctx)
		case "delevent":
			a.deleteEvent(ctx, args)

		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func (a *App) printHelp() {
	switch a.vault.State() {
	case vault.StateAwaitingSetup:
		fmt.Println("Available commands: setup, exit")
	case vault.StateLocked:
		fmt.Println("Available commands: unlock, exit")
	default:
		fmt.Println("Available commands: write, journal, deljournal, addtask, tasks, toggle, deltask, addevent, events, delevent, lock, exit")
	}
}
