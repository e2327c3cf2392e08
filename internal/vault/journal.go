package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/models"
)

// AddJournal encrypts and stores a journal entry, returning its storage id.
// The entry date is also recorded in settings so the reminder engine can
// compute days-since-last-entry without decrypting anything.
func (v *Vault) AddJournal(ctx context.Context, e models.JournalEntry) (int64, error) {
	if strings.TrimSpace(e.Content) == "" {
		return 0, fmt.Errorf("%w: journal entry content is empty", common.ErrValidation)
	}

	sid, err := add(ctx, v, v.journals, e)
	if err != nil {
		return 0, err
	}

	if err := v.settings.Set(ctx, keyLastJournalDate, []byte(e.Date.Format(dateLayout))); err != nil {
		v.log.Warn(ctx, "failed to record last journal date", "error", err)
	}
	return sid, nil
}

// Journals decrypts and returns every journal entry.
func (v *Vault) Journals(ctx context.Context) ([]models.JournalEntry, error) {
	return list[models.JournalEntry](ctx, v, v.journals)
}

// UpdateJournal applies mutate to the entry with the given logical id and
// writes it back under a fresh nonce.
func (v *Vault) UpdateJournal(ctx context.Context, id int64, mutate func(*models.JournalEntry) error) error {
	return update(ctx, v, v.journals, id, mutate)
}

// DeleteJournal removes the entry with the given logical id.
func (v *Vault) DeleteJournal(ctx context.Context, id int64) error {
	return remove[models.JournalEntry](ctx, v, v.journals, id)
}
