// Package vault implements the password-derived encryption layer in front of
// the local datastore: credential setup, unlock/lock, and the secure store
// that encrypts every record before it is written and decrypts transparently
// on read.
//
// A Vault is an explicit session object; exactly one encryption key is live
// per instance, held only in memory between Unlock (or Setup) and Lock.
// There is no password change or key rotation path: the credential written at
// setup is immutable.
package vault

import (
	"bytes"
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/cryptox"
	"github.com/dmitrijs2005/daybook/internal/dbx"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/storage"
	"github.com/dmitrijs2005/daybook/internal/storage/records"
	"github.com/dmitrijs2005/daybook/internal/storage/settings"
	"github.com/dmitrijs2005/daybook/internal/vault/legacy"
	"github.com/google/uuid"
)

// State is the session lock state.
type State string

const (
	// StateAwaitingSetup: no credential stored yet; only Setup is legal.
	StateAwaitingSetup State = "awaiting_setup"
	// StateLocked: a credential exists but no key is live.
	StateLocked State = "locked"
	// StateUnlocked: the key is live and the store is accessible.
	StateUnlocked State = "unlocked"
)

// MinPasswordLen is the minimum accepted master password length.
const MinPasswordLen = 6

const (
	keySalt            = "salt"
	keyVerifier        = "verifier"
	keyInstallID       = "install_id"
	keyLastJournalDate = "last_journal_date"

	dateLayout = "2006-01-02"
)

// Importer runs the one-shot legacy plaintext migration during Setup.
type Importer interface {
	Import(ctx context.Context, dst legacy.Target) (int, error)
}

// colStore binds one record collection to its lazily built
// logical-id → storage-id index. The index exists only while unlocked.
type colStore struct {
	name string
	repo records.Repository
	idx  map[int64]int64
}

// Vault is the session lock and secure store in one object.
//
// The mutex guards state, key, and the indexes, and is held for the full
// duration of every store operation; Lock therefore queues behind any
// in-flight encrypt/decrypt instead of invalidating its result.
type Vault struct {
	mu       sync.Mutex
	state    State
	key      []byte
	db       *sql.DB
	settings settings.Repository
	journals *colStore
	tasks    *colStore
	events   *colStore
	importer Importer
	log      logging.Logger
}

// New constructs a Vault over the given repositories. The initial state is
// derived from whether a credential is already stored; once one exists the
// session logger is tagged with the install id. importer may be nil when
// there is no legacy data to consider.
func New(ctx context.Context, repos *storage.Repositories, importer Importer, log logging.Logger) (*Vault, error) {
	v := &Vault{
		db:       repos.DB,
		settings: repos.Settings,
		journals: &colStore{name: "journals", repo: repos.Journals},
		tasks:    &colStore{name: "tasks", repo: repos.Tasks},
		events:   &colStore{name: "events", repo: repos.Events},
		importer: importer,
		log:      log,
	}

	salt, err := repos.Settings.Get(ctx, keySalt)
	if err != nil {
		return nil, err
	}
	verifier, err := repos.Settings.Get(ctx, keyVerifier)
	if err != nil {
		return nil, err
	}

	if salt == nil || verifier == nil {
		v.state = StateAwaitingSetup
		return v, nil
	}

	v.state = StateLocked
	installID, err := repos.Settings.Get(ctx, keyInstallID)
	if err != nil {
		return nil, err
	}
	if installID != nil {
		v.log = v.log.With("install_id", string(installID))
	}
	return v, nil
}

// State reports the current session state.
func (v *Vault) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Setup creates the credential from a fresh password, transitions to
// Unlocked, and then runs the legacy import. Returns common.ErrValidation
// for a short password or a confirmation mismatch, and
// common.ErrAlreadyInitialized when a credential already exists.
//
// An incomplete legacy import does not fail setup: unmigrated records stay
// in the legacy store and are logged.
func (v *Vault) Setup(ctx context.Context, password, confirm []byte) error {
	if err := v.initCredential(ctx, password, confirm); err != nil {
		return err
	}

	if v.importer == nil {
		return nil
	}
	n, err := v.importer.Import(ctx, v)
	if err != nil {
		v.log.Warn(ctx, "legacy import incomplete", "migrated", n, "error", err)
		return nil
	}
	if n > 0 {
		v.log.Info(ctx, "migrated legacy records", "count", n)
	}
	return nil
}

func (v *Vault) initCredential(ctx context.Context, password, confirm []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateAwaitingSetup {
		return common.ErrAlreadyInitialized
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLen)
	}
	if !bytes.Equal(password, confirm) {
		return fmt.Errorf("%w: passwords do not match", common.ErrValidation)
	}

	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	key := cryptox.DeriveMasterKey(password, salt)
	verifier := cryptox.MakeVerifier(password)
	installID := uuid.NewString()

	err := dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keySalt, salt); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyVerifier, verifier); err != nil {
			return err
		}
		return repo.Set(ctx, keyInstallID, []byte(installID))
	})
	if err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	v.log = v.log.With("install_id", installID)
	v.key = key
	v.state = StateUnlocked
	v.dropIndexes()
	return nil
}

// Unlock verifies the password against the stored verifier and, on match,
// derives the key from the stored salt. A mismatch returns
// common.ErrAuthentication and leaves both state and credential untouched.
// Unlocking an already unlocked vault is a no-op.
func (v *Vault) Unlock(ctx context.Context, password []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch v.state {
	case StateUnlocked:
		return nil
	case StateAwaitingSetup:
		return fmt.Errorf("credential: %w", common.ErrNotFound)
	}

	savedSalt, err := v.settings.Get(ctx, keySalt)
	if err != nil {
		return err
	}
	savedVerifier, err := v.settings.Get(ctx, keyVerifier)
	if err != nil {
		return err
	}
	if savedSalt == nil || savedVerifier == nil {
		return fmt.Errorf("credential: %w", common.ErrNotFound)
	}

	candidate := cryptox.MakeVerifier(password)
	if subtle.ConstantTimeCompare(savedVerifier, candidate) == 0 {
		return common.ErrAuthentication
	}

	v.key = cryptox.DeriveMasterKey(password, savedSalt)
	v.state = StateUnlocked
	v.dropIndexes()
	return nil
}

// Lock wipes the key and drops every decrypted index so no plaintext
// survives the transition. It waits for any in-flight store operation,
// which holds the same mutex. Locking a vault that is not unlocked is a
// no-op.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.state != StateUnlocked {
		return
	}
	common.WipeByteArray(v.key)
	v.key = nil
	v.dropIndexes()
	v.state = StateLocked
}

// LastJournalDate returns the calendar date of the most recent journal
// entry as tracked in settings, or the zero time when unknown. The value is
// plain bookkeeping metadata and is readable while locked, as in the
// legacy store.
func (v *Vault) LastJournalDate(ctx context.Context) (time.Time, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	raw, err := v.settings.Get(ctx, keyLastJournalDate)
	if err != nil || raw == nil {
		return time.Time{}, err
	}
	ts, err := time.ParseInLocation(dateLayout, string(raw), time.Local)
	if err != nil {
		// drop the bad value so it does not warn on every read
		v.log.Warn(ctx, "dropping unparseable last journal date", "value", string(raw))
		if derr := v.settings.Delete(ctx, keyLastJournalDate); derr != nil {
			return time.Time{}, derr
		}
		return time.Time{}, nil
	}
	return ts, nil
}

// ensureUnlocked must be called with the mutex held.
func (v *Vault) ensureUnlocked() error {
	if v.state != StateUnlocked {
		return common.ErrNotUnlocked
	}
	if v.key == nil {
		return common.ErrNoKey
	}
	return nil
}

func (v *Vault) dropIndexes() {
	v.journals.idx = nil
	v.tasks.idx = nil
	v.events.idx = nil
}
