// Package legacy performs the one-shot import of plaintext records left by
// the pre-encryption version of the app. The legacy store is a directory of
// JSON slot files, one per collection, plus a bare last-journal-date string.
//
// The import runs immediately after password setup and never after an unlock
// of an existing encrypted store. It is atomic per record: the slot file is
// rewritten after every successfully inserted record, so a crash leaves each
// record in exactly one store. Records that fail to import stay in the slot
// file and are logged, never dropped. Whole-batch idempotence comes from a
// settings marker written at the end of the first run.
package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/models"
	"github.com/dmitrijs2005/daybook/internal/storage/settings"
)

const (
	journalsFile = "journals.json"
	tasksFile    = "tasks.json"
	eventsFile   = "events.json"
	lastDateFile = "last-journal-date"

	markerKey          = "legacy_migrated"
	keyLastJournalDate = "last_journal_date"
)

// Target is the destination store for migrated records. The vault satisfies
// this interface, so imported records are encrypted on their way in.
type Target interface {
	AddJournal(ctx context.Context, e models.JournalEntry) (int64, error)
	AddTask(ctx context.Context, t models.Task) (int64, error)
	AddEvent(ctx context.Context, e models.CalendarEvent) (int64, error)
}

type Importer struct {
	dir      string
	settings settings.Repository
	log      logging.Logger
}

// NewImporter returns an Importer reading the legacy store at dir.
func NewImporter(dir string, settings settings.Repository, log logging.Logger) *Importer {
	return &Importer{dir: dir, settings: settings, log: log}
}

// Import migrates every legacy record into dst and reports how many records
// were moved. Once the marker is set, subsequent calls are no-ops returning
// zero, even if legacy files reappear.
func (i *Importer) Import(ctx context.Context, dst Target) (int, error) {
	marker, err := i.settings.Get(ctx, markerKey)
	if err != nil {
		return 0, err
	}
	if marker != nil {
		return 0, nil
	}

	total := 0

	n, err := importSlot(ctx, i, journalsFile, dst.AddJournal)
	total += n
	if err != nil {
		return total, err
	}

	n, err = importSlot(ctx, i, tasksFile, dst.AddTask)
	total += n
	if err != nil {
		return total, err
	}

	n, err = importSlot(ctx, i, eventsFile, dst.AddEvent)
	total += n
	if err != nil {
		return total, err
	}

	if err := i.importLastJournalDate(ctx); err != nil {
		return total, err
	}

	if err := i.settings.Set(ctx, markerKey, []byte("1")); err != nil {
		return total, err
	}
	return total, nil
}

// importSlot moves the records of one slot file into the store via add.
// After every successful insert the slot file is rewritten without that
// record; when the slot is drained the file is removed.
func importSlot[T any](ctx context.Context, i *Importer, name string, add func(context.Context, T) (int64, error)) (int, error) {
	path := filepath.Join(i.dir, name)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		// an unreadable slot stays on disk for manual recovery
		i.log.Warn(ctx, "cannot parse legacy slot", "file", name, "error", err)
		return 0, nil
	}

	migrated := 0
	var failed []T
	for n, item := range items {
		if _, err := add(ctx, item); err != nil {
			i.log.Warn(ctx, "legacy record not migrated", "file", name, "error", err)
			failed = append(failed, item)
		} else {
			migrated++
		}

		rest := append(append([]T{}, failed...), items[n+1:]...)
		if err := writeSlot(path, rest); err != nil {
			return migrated, fmt.Errorf("rewriting legacy slot %s: %w", name, err)
		}
	}

	if len(failed) == 0 {
		if err := os.Remove(path); err != nil {
			return migrated, err
		}
	}
	return migrated, nil
}

func writeSlot[T any](path string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// importLastJournalDate copies the last-journal-date slot into settings and
// removes it.
func (i *Importer) importLastJournalDate(ctx context.Context) error {
	path := filepath.Join(i.dir, lastDateFile)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if value := strings.TrimSpace(string(data)); value != "" {
		if err := i.settings.Set(ctx, keyLastJournalDate, []byte(value)); err != nil {
			return err
		}
	}
	return os.Remove(path)
}
