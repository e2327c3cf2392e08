// Package settings provides the string-keyed settings collection. It holds
// the credential (salt, verifier) and small bookkeeping values; unlike the
// record collections it is addressed by key, not by storage id.
package settings

import "context"

type Repository interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
