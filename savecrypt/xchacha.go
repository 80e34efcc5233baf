package savecrypt

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// XChaChaHKDFInfo is the HKDF info string used to stretch a record key into
// an XChaCha20-Poly1305 key.
const XChaChaHKDFInfo = "savedata-xchacha"

// XChaCha encrypts with XChaCha20-Poly1305. The record key (any non-empty
// length) is expanded to 32 bytes with HKDF-SHA256.
// Output format: nonce(24B) || ciphertext || tag(16B).
type XChaCha struct{}

// Encrypt encrypts plaintext under key.
func (XChaCha) Encrypt(plaintext, key []byte) ([]byte, error) {
	aead, err := newXChaCha(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("savecrypt: random nonce generation failed: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt decrypts ciphertext produced by Encrypt.
func (XChaCha) Decrypt(ciphertext, key []byte) ([]byte, error) {
	aead, err := newXChaCha(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrInvalidCiphertext
	}

	nonceSize := aead.NonceSize()
	pt, err := aead.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if pt == nil {
		pt = []byte{}
	}
	return pt, nil
}

func newXChaCha(key []byte) (cipher.AEAD, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	r := hkdf.New(sha256.New, key, nil, []byte(XChaChaHKDFInfo))
	derived := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(r, derived); err != nil {
		return nil, fmt.Errorf("savecrypt: HKDF failed: %w", err)
	}

	aead, err := chacha20poly1305.NewX(derived)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return aead, nil
}
