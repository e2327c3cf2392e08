// Package cryptox implements the password-derived encryption layer:
// master-key derivation, the password verifier, and the AES-GCM record codec.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/daybook/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the size of the random salt minted at setup.
	SaltSize = 16

	// KeySize yields AES-256.
	KeySize = 32

	// NonceSize is the GCM nonce length. A fresh random nonce is generated
	// per encryption and must never repeat under the same key.
	NonceSize = 12
)

// DeriveMasterKey derives the symmetric encryption key from a password and
// salt using argon2id. Deterministic for a fixed (password, salt) pair.
// The parameters are fixed; changing them would orphan existing vaults.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

// MakeVerifier returns a SHA-256 digest of the raw password bytes.
//
// The verifier is used only for equality-check verification at unlock and is
// deliberately computed by a different algorithm than DeriveMasterKey, so a
// leaked verifier reveals nothing about the encryption key. It is
// salt-independent and must never be used as key material.
func MakeVerifier(password []byte) []byte {
	hash := sha256.Sum256(password)
	return hash[:]
}

// EncryptRecord serializes the given value to JSON and encrypts it using
// AES-GCM under key. A new random 12-byte nonce is generated for each call.
// The ciphertext (with the GCM tag appended) and the nonce are returned
// separately.
func EncryptRecord(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal record: %w", err)
	}

	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// DecryptRecord decrypts ciphertext with AES-GCM and unmarshals the resulting
// JSON into v. The key must be the one used for encryption and the nonce the
// one generated alongside the ciphertext.
//
// If the authentication tag does not verify (wrong key, corrupted row, or
// tampering), the returned error wraps common.ErrDecryptionFailed. A GCM tag
// failure is the only way to detect a wrong key past the verifier stage.
func DecryptRecord(ciphertext, nonce, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}

	return json.Unmarshal(plaintext, v)
}
