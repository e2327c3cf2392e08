package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/models"
)

func (a *App) writeJournal(ctx context.Context) {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	content, err := GetMultiline(a.reader, "Write your entry", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	entry := models.JournalEntry{
		ID:      models.NewID(),
		Title:   title,
		Content: content,
		Date:    time.Now(),
	}

	if _, err := a.vault.AddJournal(ctx, entry); err != nil {
		if errors.Is(err, common.ErrValidation) {
			fmt.Println(err.Error())
			return
		}
		a.log.Error(ctx, "error adding journal entry", "error", err)
		return
	}
	fmt.Println("Saved.")
}

func (a *App) listJournal(ctx context.Context) {
	entries, err := a.vault.Journals(ctx)
	if err != nil {
		a.reportStoreError(ctx, err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("No entries yet. Use 'write' to start.")
		return
	}
	for _, e := range entries {
		fmt.Printf("[%d] %s  %s\n", e.ID, e.Date.Format("2006-01-02"), e.Title)
		fmt.Println(e.Content)
		fmt.Println()
	}
}

func (a *App) deleteJournal(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "deljournal")
	if !ok {
		return
	}
	if err := a.vault.DeleteJournal(ctx, id); err != nil {
		a.reportStoreError(ctx, err)
		return
	}
	fmt.Println("Deleted.")
}

// parseID resolves the single <id> argument of delete/toggle commands.
func (a *App) parseID(args []string, usage string) (int64, bool) {
	if len(args) != 1 {
		fmt.Printf("Usage: %s <id>\n", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Bad id: %s\n", args[0])
		return 0, false
	}
	return id, true
}

func (a *App) reportStoreError(ctx context.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotUnlocked):
		fmt.Println("Unlock first.")
	case errors.Is(err, common.ErrNotFound):
		fmt.Println("Not found.")
	default:
		a.log.Error(ctx, "store operation failed", "error", err)
	}
}
