package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/models"
)

// AddEvent encrypts and stores a calendar event, returning its storage id.
func (v *Vault) AddEvent(ctx context.Context, e models.CalendarEvent) (int64, error) {
	if strings.TrimSpace(e.Title) == "" {
		return 0, fmt.Errorf("%w: event title is empty", common.ErrValidation)
	}
	return add(ctx, v, v.events, e)
}

// Events decrypts and returns every calendar event.
func (v *Vault) Events(ctx context.Context) ([]models.CalendarEvent, error) {
	return list[models.CalendarEvent](ctx, v, v.events)
}

// UpdateEvent applies mutate to the event with the given logical id and
// writes it back under a fresh nonce.
func (v *Vault) UpdateEvent(ctx context.Context, id int64, mutate func(*models.CalendarEvent) error) error {
	return update(ctx, v, v.events, id, mutate)
}

// DeleteEvent removes the event with the given logical id.
func (v *Vault) DeleteEvent(ctx context.Context, id int64) error {
	return remove[models.CalendarEvent](ctx, v, v.events, id)
}
