// Package records provides the persistence layer for encrypted collection
// rows. A row is the only durable representation of a journal entry, task,
// or calendar event: an opaque storage id, a GCM nonce, and the ciphertext.
package records

import "context"

// Record is an encrypted row as stored. StorageID is assigned by the
// datastore on insert and carries no relation to the logical id inside the
// ciphertext.
type Record struct {
	StorageID  int64
	Nonce      []byte
	Ciphertext []byte
}

// Repository describes storage-id-addressed operations on one collection.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// Insert stores a new row and returns its auto-assigned storage id.
	Insert(ctx context.Context, rec *Record) (int64, error)

	// GetAll returns every row of the collection in storage order.
	GetAll(ctx context.Context) ([]Record, error)

	// GetByID returns a single row. Missing rows map to common.ErrNotFound.
	GetByID(ctx context.Context, storageID int64) (*Record, error)

	// Update overwrites the nonce and ciphertext of an existing row.
	Update(ctx context.Context, rec *Record) error

	// DeleteByID removes a row. Missing rows map to common.ErrNotFound.
	DeleteByID(ctx context.Context, storageID int64) error
}
