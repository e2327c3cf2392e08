package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/models"
)

const eventDateLayout = "2006-01-02 15:04"

func (a *App) addEvent(ctx context.Context) {
	title, err := getSimpleText(a.reader, "Event title", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	when, err := getSimpleText(a.reader, "Starts at (YYYY-MM-DD HH:MM)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	startsAt, err := time.ParseInLocation(eventDateLayout, when, time.Local)
	if err != nil {
		fmt.Println("Bad date, expected YYYY-MM-DD HH:MM")
		return
	}

	description, err := getSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	event := models.CalendarEvent{
		ID:          models.NewID(),
		Title:       title,
		StartsAt:    startsAt,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if _, err := a.vault.AddEvent(ctx, event); err != nil {
		if errors.Is(err, common.ErrValidation) {
			fmt.Println(err.Error())
			return
		}
		a.log.Error(ctx, "error adding event", "error", err)
		return
	}
	fmt.Println("Added.")
}

func (a *App) listEvents(ctx context.Context) {
	events, err := a.vault.Events(ctx)
	if err != nil {
		a.reportStoreError(ctx, err)
		return
	}
	if len(events) == 0 {
		fmt.Println("No events.")
		return
	}
	for _, e := range events {
		fmt.Printf("[%d] %s  %s\n", e.ID, e.StartsAt.Format(eventDateLayout), e.Title)
		if e.Description != "" {
			fmt.Println("    " + e.Description)
		}
	}
}

func (a *App) deleteEvent(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "delevent")
	if !ok {
		return
	}
	if err := a.vault.DeleteEvent(ctx, id); err != nil {
		a.reportStoreError(ctx, err)
		return
	}
	fmt.Println("Deleted.")
}
