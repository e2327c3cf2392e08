package vault

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/models"
	"github.com/dmitrijs2005/daybook/internal/storage/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndList_RoundTripPerCollection(t *testing.T) {
	v, _ := unlockedVault(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	je := models.JournalEntry{ID: models.NewID(), Title: "day one", Content: "wrote some Go", Date: now}
	task := models.Task{ID: models.NewID(), Text: "water plants", CreatedAt: now}
	event := models.CalendarEvent{ID: models.NewID(), Title: "standup", StartsAt: now.Add(time.Hour), CreatedAt: now}

	sid, err := v.AddJournal(ctx, je)
	require.NoError(t, err)
	assert.Positive(t, sid)
	_, err = v.AddTask(ctx, task)
	require.NoError(t, err)
	_, err = v.AddEvent(ctx, event)
	require.NoError(t, err)

	entries, err := v.Journals(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, je.Title, entries[0].Title)
	assert.Equal(t, je.Content, entries[0].Content)

	tasks, err := v.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Completed)

	events, err := v.Events(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.Title, events[0].Title)
}

func TestAdd_EmptyContentIsValidationError(t *testing.T) {
	v, _ := unlockedVault(t)
	ctx := context.Background()

	_, err := v.AddJournal(ctx, models.JournalEntry{ID: models.NewID(), Content: "   "})
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = v.AddTask(ctx, models.Task{ID: models.NewID()})
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = v.AddEvent(ctx, models.CalendarEvent{ID: models.NewID()})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdateTask_ToggleCompleted(t *testing.T) {
	v, _ := unlockedVault(t)
	ctx := context.Background()

	id := models.NewID()
	_, err := v.AddTask(ctx, models.Task{ID: id, Text: "toggle me"})
	require.NoError(t, err)

	require.NoError(t, v.UpdateTask(ctx, id, func(task *models.Task) error {
		task.Completed = !task.Completed
		return nil
	}))

	tasks, err := v.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
}

func TestUpdate_UnknownLogicalIDIsNotFound(t *testing.T) {
	v, _ := unlockedVault(t)

	err := v.UpdateTask(context.Background(), 12345, func(task *models.Task) error {
		task.Completed = true
		return nil
	})
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_RewritesWithFreshNonce(t *testing.T) {
	v, repos := unlockedVault(t)
	ctx := context.Background()

	id := models.NewID()
	_, err := v.AddTask(ctx, models.Task{ID: id, Text: "nonce check"})
	require.NoError(t, err)

	before, err := repos.Tasks.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, before, 1)

	require.NoError(t, v.UpdateTask(ctx, id, func(task *models.Task) error {
		task.Text = "changed"
		return nil
	}))

	after, err := repos.Tasks.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)

	assert.Equal(t, before[0].StorageID, after[0].StorageID)
	assert.NotEqual(t, before[0].Nonce, after[0].Nonce)
	assert.NotEqual(t, before[0].Ciphertext, after[0].Ciphertext)
}

func TestDeleteTask_ByLogicalID(t *testing.T) {
	v, _ := unlockedVault(t)
	ctx := context.Background()

	keep := models.NewID()
	drop := models.NewID()
	_, err := v.AddTask(ctx, models.Task{ID: keep, Text: "keep"})
	require.NoError(t, err)
	_, err = v.AddTask(ctx, models.Task{ID: drop, Text: "drop"})
	require.NoError(t, err)

	require.NoError(t, v.DeleteTask(ctx, drop))

	tasks, err := v.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "keep", tasks[0].Text)

	// deleting a non-existent id reports NotFound and changes nothing
	require.ErrorIs(t, v.DeleteTask(ctx, drop), common.ErrNotFound)
	tasks, err = v.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestList_SkipsCorruptRecord(t *testing.T) {
	v, repos := unlockedVault(t)
	ctx := context.Background()

	_, err := v.AddJournal(ctx, models.JournalEntry{ID: models.NewID(), Title: "good", Content: "ok", Date: time.Now()})
	require.NoError(t, err)

	// a row that was never produced by the codec
	_, err = repos.Journals.Insert(ctx, &records.Record{
		Nonce:      []byte("bad-nonce-12"),
		Ciphertext: []byte("garbage ciphertext"),
	})
	require.NoError(t, err)

	entries, err := v.Journals(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].Title)
}

func TestAddJournal_TracksLastJournalDate(t *testing.T) {
	v, _ := unlockedVault(t)
	ctx := context.Background()

	date := time.Date(2026, 8, 27, 9, 30, 0, 0, time.Local)
	_, err := v.AddJournal(ctx, models.JournalEntry{ID: models.NewID(), Title: "t", Content: "c", Date: date})
	require.NoError(t, err)

	last, err := v.LastJournalDate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2026, last.Year())
	assert.Equal(t, time.August, last.Month())
	assert.Equal(t, 27, last.Day())
}
