package savecrypt

import (
	"fmt"

	"github.com/google/tink/go/aead/subtle"
	"github.com/google/tink/go/subtle/random"
)

// Tink is an AES-GCM provider backed by Tink's subtle primitives. It accepts
// 16- or 32-byte keys and produces iv(12B) || ciphertext || tag(16B), the
// same layout as AESGCM, so records written by one decrypt with the other.
type Tink struct{}

// Encrypt encrypts plaintext under key.
func (Tink) Encrypt(plaintext, key []byte) ([]byte, error) {
	a, err := subtle.NewAESGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	ct, err := a.Encrypt(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("savecrypt: tink encrypt: %w", err)
	}
	return ct, nil
}

// Decrypt decrypts ciphertext produced by Encrypt.
func (Tink) Decrypt(ciphertext, key []byte) ([]byte, error) {
	a, err := subtle.NewAESGCM(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(ciphertext) < MinCiphertextLen {
		return nil, ErrInvalidCiphertext
	}
	pt, err := a.Decrypt(ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if pt == nil {
		pt = []byte{}
	}
	return pt, nil
}

// tinkRandomBytes panics when the system random source fails.
var tinkRandomBytes = random.GetRandomBytes

// TinkKeyGenerator draws keys from Tink's random source.
type TinkKeyGenerator struct{}

// GenerateKey returns length random bytes. A failure of the random source
// is reported as ErrKeyGeneration.
func (TinkKeyGenerator) GenerateKey(length int) (key []byte, err error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrKeyGeneration, length)
	}
	defer func() {
		if r := recover(); r != nil {
			key, err = nil, fmt.Errorf("%w: %v", ErrKeyGeneration, r)
		}
	}()
	return tinkRandomBytes(uint32(length)), nil
}
