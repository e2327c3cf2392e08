// Package reminder evaluates the decrypted working set on a schedule and
// emits journal and event reminders through a Notifier sink.
package reminder

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/models"
)

// Notifier is the presentation sink for reminders. Delivery is best effort;
// the engine logs failures and moves on.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Source is the decrypted view the engine evaluates. The vault satisfies it.
type Source interface {
	Journals(ctx context.Context) ([]models.JournalEntry, error)
	Events(ctx context.Context) ([]models.CalendarEvent, error)
	LastJournalDate(ctx context.Context) (time.Time, error)
}

const (
	// startingNowWindow brackets an event start; a firing inside it happens
	// at most once per event, ever.
	startingNowWindow = 2 * time.Minute

	// upcomingWindow is how far ahead an "upcoming" reminder looks.
	upcomingWindow = time.Hour

	// upcomingRepeat suppresses a repeat "upcoming" firing for the same
	// event within this interval.
	upcomingRepeat = 30 * time.Minute

	dateLayout = "2006-01-02"
)

type eventFireState struct {
	startedFired bool
	lastUpcoming time.Time
}

// Engine holds per-event firing markers keyed by logical id. Markers for
// events that no longer exist are pruned on every pass, so a deleted event
// never blocks a reminder for a reused id.
//
// The engine is driven from a single goroutine (Run); it is not safe for
// concurrent use.
type Engine struct {
	src      Source
	notifier Notifier
	log      logging.Logger

	fired          map[int64]*eventFireState
	journalFiredOn string
}

func New(src Source, notifier Notifier, log logging.Logger) *Engine {
	return &Engine{
		src:      src,
		notifier: notifier,
		log:      log,
		fired:    make(map[int64]*eventFireState),
	}
}

// Run performs both checks every interval until ctx is done.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			if err := e.CheckJournal(ctx, now); err != nil {
				e.log.Warn(ctx, "journal reminder check failed", "error", err)
			}
			if err := e.CheckEvents(ctx, now); err != nil {
				e.log.Warn(ctx, "event reminder check failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// CheckJournal fires at most once per local calendar day per session: a
// days-since-last-entry nudge, or a welcome message when the journal has
// never been written to.
func (e *Engine) CheckJournal(ctx context.Context, now time.Time) error {
	today := now.Format(dateLayout)
	if e.journalFiredOn == today {
		return nil
	}

	entries, err := e.src.Journals(ctx)
	if err != nil {
		return err
	}

	var last time.Time
	for _, entry := range entries {
		if sameDay(entry.Date, now) {
			return nil
		}
		if entry.Date.After(last) {
			last = entry.Date
		}
	}

	// legacy installs may know the last date without holding any entries
	if last.IsZero() {
		ld, err := e.src.LastJournalDate(ctx)
		if err != nil {
			return err
		}
		last = ld
		if !last.IsZero() && sameDay(last, now) {
			return nil
		}
	}

	e.journalFiredOn = today
	if last.IsZero() {
		e.notify(ctx, "Welcome to Daybook", "Write your first journal entry today.")
		return nil
	}

	days := daysBetween(last, now)
	e.notify(ctx, "Journal reminder",
		fmt.Sprintf("No entry yet today. Your last entry was %d day(s) ago.", days))
	return nil
}

// CheckEvents walks the current event set and fires "starting now" and
// "upcoming" reminders according to the firing windows.
func (e *Engine) CheckEvents(ctx context.Context, now time.Time) error {
	events, err := e.src.Events(ctx)
	if err != nil {
		return err
	}

	live := make(map[int64]struct{}, len(events))
	for _, ev := range events {
		live[ev.ID] = struct{}{}

		st := e.fired[ev.ID]
		if st == nil {
			st = &eventFireState{}
			e.fired[ev.ID] = st
		}

		until := ev.StartsAt.Sub(now)
		switch {
		case until.Abs() <= startingNowWindow:
			if !st.startedFired {
				e.notify(ctx, "Event starting now", ev.Title)
				st.startedFired = true
			}
		case until > 0 && until <= upcomingWindow:
			if st.lastUpcoming.IsZero() || now.Sub(st.lastUpcoming) >= upcomingRepeat {
				e.notify(ctx, "Upcoming event",
					fmt.Sprintf("%s starts in %d minutes.", ev.Title, int(until.Minutes())))
				st.lastUpcoming = now
			}
		}
	}

	for id := range e.fired {
		if _, ok := live[id]; !ok {
			delete(e.fired, id)
		}
	}
	return nil
}

func (e *Engine) notify(ctx context.Context, title, body string) {
	if err := e.notifier.Notify(ctx, title, body); err != nil {
		e.log.Warn(ctx, "notification failed", "title", title, "error", err)
	}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Local().Date()
	y2, m2, d2 := b.Local().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func daysBetween(from, to time.Time) int {
	f := startOfDay(from)
	t := startOfDay(to)
	// a DST change makes a calendar day 23 or 25 hours long
	return int(math.Round(t.Sub(f).Hours() / 24))
}

func startOfDay(ts time.Time) time.Time {
	l := ts.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
}
