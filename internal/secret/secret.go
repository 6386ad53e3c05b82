// Package secret provides symmetric encryption for bobble: IPC messages in
// transit and clipboard history rows at rest share the same sealed format.
//
// A 32-byte NaCl secretbox key is derived from the user's passphrase with
// HKDF-SHA256. Sealed blobs carry a random 24-byte nonce followed by the
// ciphertext:
//
//	[ 24-byte nonce ][ ciphertext ]
//
// An empty passphrase means no encryption; callers pass a nil key and data
// is stored and sent in the clear.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the secretbox key length.
	KeySize = 32

	nonceSize = 24
)

var hkdfInfo = []byte("bobble-v1")

// DeriveKey derives a secretbox key from a passphrase using HKDF-SHA256.
// The same passphrase always yields the same key.
func DeriveKey(passphrase string) (*[KeySize]byte, error) {
	h := hkdf.New(sha256.New, []byte(passphrase), nil, hkdfInfo)
	var key [KeySize]byte
	if _, err := io.ReadFull(h, key[:]); err != nil {
		return nil, fmt.Errorf("key derivation: %w", err)
	}
	return &key, nil
}

// Seal encrypts plaintext with key, prepending a fresh random nonce.
func Seal(plaintext []byte, key *[KeySize]byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("nonce generation: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, key), nil
}

// Open decrypts a sealed blob produced by Seal.
func Open(sealed []byte, key *[KeySize]byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("sealed blob too short")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return nil, fmt.Errorf("decryption failed (wrong passphrase?)")
	}
	return plain, nil
}
