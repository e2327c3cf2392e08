package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/cryptox"
	"github.com/dmitrijs2005/daybook/internal/models"
	"github.com/dmitrijs2005/daybook/internal/storage/records"
)

// The generic helpers below implement the secure-store operations shared by
// all three collections: encrypt before every write, decrypt after every
// read, resolve logical ids through the per-collection index. Methods cannot
// carry type parameters, so the typed wrappers live in journal.go, tasks.go,
// and events.go.

func add[T models.Identified](ctx context.Context, v *Vault, c *colStore, item T) (int64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.ensureUnlocked(); err != nil {
		return 0, err
	}

	ciphertext, nonce, err := cryptox.EncryptRecord(item, v.key)
	if err != nil {
		return 0, fmt.Errorf("encryption error: %w", err)
	}

	sid, err := c.repo.Insert(ctx, &records.Record{Nonce: nonce, Ciphertext: ciphertext})
	if err != nil {
		return 0, fmt.Errorf("saving error: %w", err)
	}

	if c.idx != nil {
		c.idx[item.LogicalID()] = sid
	}
	return sid, nil
}

func list[T any](ctx context.Context, v *Vault, c *colStore) ([]T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.ensureUnlocked(); err != nil {
		return nil, err
	}
	return listLocked[T](ctx, v, c)
}

// listLocked decrypts the whole collection and rebuilds its index as a side
// effect. A row that fails decryption is logged and skipped: partial
// corruption must not deny access to the rest.
func listLocked[T any](ctx context.Context, v *Vault, c *colStore) ([]T, error) {
	rows, err := c.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", c.name, err)
	}

	result := make([]T, 0, len(rows))
	idx := make(map[int64]int64, len(rows))
	for _, row := range rows {
		var item T
		if err := cryptox.DecryptRecord(row.Ciphertext, row.Nonce, v.key, &item); err != nil {
			v.log.Warn(ctx, "skipping record that failed decryption",
				"collection", c.name, "storage_id", row.StorageID, "error", err)
			continue
		}
		result = append(result, item)
		if ident, ok := any(item).(models.Identified); ok {
			idx[ident.LogicalID()] = row.StorageID
		}
	}
	c.idx = idx
	return result, nil
}

// resolveLocked maps a logical id to its storage id, building the index on
// first use after unlock.
func resolveLocked[T any](ctx context.Context, v *Vault, c *colStore, id int64) (int64, error) {
	if c.idx == nil {
		if _, err := listLocked[T](ctx, v, c); err != nil {
			return 0, err
		}
	}
	sid, ok := c.idx[id]
	if !ok {
		return 0, common.ErrNotFound
	}
	return sid, nil
}

// update is a read-decrypt-mutate-reencrypt-write round trip. The mutated
// value is sealed under a fresh nonce and written back to the same storage
// id. Mutators must not change the logical id.
func update[T models.Identified](ctx context.Context, v *Vault, c *colStore, id int64, mutate func(*T) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.ensureUnlocked(); err != nil {
		return err
	}

	sid, err := resolveLocked[T](ctx, v, c, id)
	if err != nil {
		return err
	}

	row, err := c.repo.GetByID(ctx, sid)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			delete(c.idx, id)
		}
		return err
	}

	var item T
	if err := cryptox.DecryptRecord(row.Ciphertext, row.Nonce, v.key, &item); err != nil {
		return err
	}
	if err := mutate(&item); err != nil {
		return err
	}

	ciphertext, nonce, err := cryptox.EncryptRecord(item, v.key)
	if err != nil {
		return fmt.Errorf("encryption error: %w", err)
	}
	return c.repo.Update(ctx, &records.Record{StorageID: sid, Nonce: nonce, Ciphertext: ciphertext})
}

func remove[T any](ctx context.Context, v *Vault, c *colStore, id int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.ensureUnlocked(); err != nil {
		return err
	}

	sid, err := resolveLocked[T](ctx, v, c, id)
	if err != nil {
		return err
	}

	if err := c.repo.DeleteByID(ctx, sid); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			delete(c.idx, id)
		}
		return err
	}
	delete(c.idx, id)
	return nil
}
