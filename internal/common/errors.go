// Package common defines shared constants and sentinel errors used across
// Daybook components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors (bad user input: empty content, short password,
	// mismatched confirmation). Surfaced immediately, never retried.
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrAuthentication     = errors.New("authentication failed")
	ErrAlreadyInitialized = errors.New("vault already initialized")

	// Crypto errors. ErrDecryptionFailed means the AES-GCM tag did not
	// verify: wrong key, corrupted row, or tampering.
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrNoKey            = errors.New("no active encryption key")

	// Contract violation: a caller reached the secure store while the
	// vault was locked or never set up.
	ErrNotUnlocked = errors.New("vault is not unlocked")
)
