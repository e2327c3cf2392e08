package vault

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/daybook/internal/models"
	"github.com/dmitrijs2005/daybook/internal/storage"
	"github.com/dmitrijs2005/daybook/internal/vault/legacy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End-to-end: setup with legacy plaintext present encrypts it into the store
// and erases the legacy files.
func TestSetup_RunsLegacyImport(t *testing.T) {
	ctx := context.Background()

	repos, err := storage.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	dir := t.TempDir()
	entries := []models.JournalEntry{
		{ID: 101, Title: "from the old app", Content: "plaintext once", Date: time.Now()},
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "journals.json"), data, 0o600))

	imp := legacy.NewImporter(dir, repos.Settings, testLogger())
	v, err := New(ctx, repos, imp, testLogger())
	require.NoError(t, err)

	require.NoError(t, v.Setup(ctx, []byte("abc123"), []byte("abc123")))

	got, err := v.Journals(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "from the old app", got[0].Title)
	assert.Equal(t, int64(101), got[0].ID)

	// legacy plaintext is gone
	_, err = os.Stat(filepath.Join(dir, "journals.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// and the stored row is not plaintext
	rows, err := repos.Journals.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotContains(t, string(rows[0].Ciphertext), "plaintext once")
}
