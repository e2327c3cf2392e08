package vault

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/models"
	"github.com/dmitrijs2005/daybook/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// recordingLogger captures With calls so tests can assert on session context.
type recordingLogger struct {
	withArgs [][]any
}

func (l *recordingLogger) Info(context.Context, string, ...any)  {}
func (l *recordingLogger) Warn(context.Context, string, ...any)  {}
func (l *recordingLogger) Error(context.Context, string, ...any) {}

func (l *recordingLogger) With(args ...any) logging.Logger {
	l.withArgs = append(l.withArgs, args)
	return l
}

func setupVault(t *testing.T) (*Vault, *storage.Repositories) {
	t.Helper()
	ctx := context.Background()

	repos, err := storage.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	v, err := New(ctx, repos, nil, testLogger())
	require.NoError(t, err)
	return v, repos
}

func unlockedVault(t *testing.T) (*Vault, *storage.Repositories) {
	t.Helper()
	v, repos := setupVault(t)
	require.NoError(t, v.Setup(context.Background(), []byte("abc123"), []byte("abc123")))
	return v, repos
}

func TestNew_FreshDatabaseAwaitsSetup(t *testing.T) {
	v, _ := setupVault(t)
	assert.Equal(t, StateAwaitingSetup, v.State())
}

func TestSetup_PasswordValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("six characters is enough", func(t *testing.T) {
		v, _ := setupVault(t)
		require.NoError(t, v.Setup(ctx, []byte("abc123"), []byte("abc123")))
		assert.Equal(t, StateUnlocked, v.State())
	})

	t.Run("short password rejected", func(t *testing.T) {
		v, _ := setupVault(t)
		err := v.Setup(ctx, []byte("ab1"), []byte("ab1"))
		require.ErrorIs(t, err, common.ErrValidation)
		assert.Equal(t, StateAwaitingSetup, v.State())
	})

	t.Run("confirmation mismatch rejected", func(t *testing.T) {
		v, _ := setupVault(t)
		err := v.Setup(ctx, []byte("abc123"), []byte("abc124"))
		require.ErrorIs(t, err, common.ErrValidation)
		assert.Equal(t, StateAwaitingSetup, v.State())
	})
}

func TestSetup_TwiceFails(t *testing.T) {
	v, _ := unlockedVault(t)
	err := v.Setup(context.Background(), []byte("other-pass"), []byte("other-pass"))
	require.ErrorIs(t, err, common.ErrAlreadyInitialized)
}

func TestUnlock_WrongPasswordStaysLocked(t *testing.T) {
	v, repos := unlockedVault(t)
	ctx := context.Background()

	verifierBefore, err := repos.Settings.Get(ctx, "verifier")
	require.NoError(t, err)

	v.Lock()
	require.Equal(t, StateLocked, v.State())

	err = v.Unlock(ctx, []byte("wrongpass"))
	require.ErrorIs(t, err, common.ErrAuthentication)
	assert.Equal(t, StateLocked, v.State())

	// the stored credential must not be mutated by a failed attempt
	verifierAfter, err := repos.Settings.Get(ctx, "verifier")
	require.NoError(t, err)
	assert.Equal(t, verifierBefore, verifierAfter)
}

func TestUnlock_CorrectPasswordRestoresAccess(t *testing.T) {
	v, _ := unlockedVault(t)
	ctx := context.Background()

	_, err := v.AddTask(ctx, models.Task{ID: models.NewID(), Text: "before lock"})
	require.NoError(t, err)

	v.Lock()
	require.NoError(t, v.Unlock(ctx, []byte("abc123")))
	require.Equal(t, StateUnlocked, v.State())

	// data written before the lock decrypts under the re-derived key
	tasks, err := v.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "before lock", tasks[0].Text)
}

func TestUnlock_BeforeSetupFails(t *testing.T) {
	v, _ := setupVault(t)
	err := v.Unlock(context.Background(), []byte("abc123"))
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLock_BlocksStoreAccess(t *testing.T) {
	v, _ := unlockedVault(t)
	ctx := context.Background()

	v.Lock()

	_, err := v.Journals(ctx)
	require.ErrorIs(t, err, common.ErrNotUnlocked)
	_, err = v.AddTask(ctx, models.Task{ID: models.NewID(), Text: "nope"})
	require.ErrorIs(t, err, common.ErrNotUnlocked)
	err = v.DeleteEvent(ctx, 1)
	require.ErrorIs(t, err, common.ErrNotUnlocked)
}

func TestSetup_TagsSessionLoggerWithInstallID(t *testing.T) {
	ctx := context.Background()

	repos, err := storage.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	rl := &recordingLogger{}
	v, err := New(ctx, repos, nil, rl)
	require.NoError(t, err)
	require.NoError(t, v.Setup(ctx, []byte("abc123"), []byte("abc123")))

	stored, err := repos.Settings.Get(ctx, "install_id")
	require.NoError(t, err)
	require.NotNil(t, stored)
	_, err = uuid.Parse(string(stored))
	require.NoError(t, err)

	require.NotEmpty(t, rl.withArgs)
	assert.Equal(t, []any{"install_id", string(stored)}, rl.withArgs[len(rl.withArgs)-1])

	// a later instance over the same database picks the id up from settings
	rl2 := &recordingLogger{}
	_, err = New(ctx, repos, nil, rl2)
	require.NoError(t, err)
	require.NotEmpty(t, rl2.withArgs)
	assert.Equal(t, []any{"install_id", string(stored)}, rl2.withArgs[0])
}

func TestLastJournalDate_DropsUnparseableValue(t *testing.T) {
	v, repos := unlockedVault(t)
	ctx := context.Background()

	require.NoError(t, repos.Settings.Set(ctx, "last_journal_date", []byte("not-a-date")))

	got, err := v.LastJournalDate(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// the bad value is gone, so the next read is clean
	raw, err := repos.Settings.Get(ctx, "last_journal_date")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestNew_ExistingCredentialStartsLocked(t *testing.T) {
	v, repos := unlockedVault(t)
	ctx := context.Background()

	_, err := v.AddJournal(ctx, models.JournalEntry{ID: models.NewID(), Title: "t", Content: "c"})
	require.NoError(t, err)

	// a second instance over the same database sees the credential
	v2, err := New(ctx, repos, nil, testLogger())
	require.NoError(t, err)
	assert.Equal(t, StateLocked, v2.State())

	require.NoError(t, v2.Unlock(ctx, []byte("abc123")))
	entries, err := v2.Journals(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
