package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/daybook/internal/config"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/reminder"
	"github.com/dmitrijs2005/daybook/internal/storage"
	"github.com/dmitrijs2005/daybook/internal/vault"
	"github.com/dmitrijs2005/daybook/internal/vault/legacy"

	_ "modernc.org/sqlite"
)

type App struct {
	config    *config.Config
	vault     *vault.Vault
	reminders *reminder.Engine
	repos     *storage.Repositories
	log       logging.Logger
	reader    *bufio.Reader

	stopReminders context.CancelFunc
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := storage.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	imp := legacy.NewImporter(c.LegacyDir, repos.Settings, log)

	v, err := vault.New(ctx, repos, imp, log)
	if err != nil {
		return nil, err
	}

	eng := reminder.New(v, NewTerminalNotifier(os.Stdout), log)

	return &App{
		config:    c,
		vault:     v,
		reminders: eng,
		repos:     repos,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.repos.DB.Close()
	defer a.stopRemindersLoop()
	a.Root(ctx)
}

// startRemindersLoop launches the reminder engine for the current session.
// It is a no-op while a loop is already running.
func (a *App) startRemindersLoop(ctx context.Context) {
	if a.stopReminders != nil {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	a.stopReminders = cancel
	go a.reminders.Run(loopCtx, a.config.ReminderCheckInterval)
}

func (a *App) stopRemindersLoop() {
	if a.stopReminders != nil {
		a.stopReminders()
		a.stopReminders = nil
	}
}

func (a *App) isUnlocked() bool {
	return a.vault.State() == vault.StateUnlocked
}
