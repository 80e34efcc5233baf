// Package savecrypt provides the symmetric ciphers and key generators used to
// protect individual saves.
//
// Every save is encrypted under its own random 16-byte key, which is stored
// next to the ciphertext. There is no master key; a record is decryptable by
// itself alone. Providers are stateless and safe for concurrent use.
package savecrypt

import (
	"fmt"
	"strings"
)

// Provider encrypts and decrypts a payload under a caller-supplied key.
type Provider interface {
	// Encrypt returns ciphertext for plaintext under key.
	Encrypt(plaintext, key []byte) ([]byte, error)

	// Decrypt recovers the plaintext. A wrong key or tampered ciphertext
	// fails with ErrDecryptionFailed.
	Decrypt(ciphertext, key []byte) ([]byte, error)
}

// KeyGenerator produces cryptographically random keys.
type KeyGenerator interface {
	GenerateKey(length int) ([]byte, error)
}

// Provider names accepted by ProviderByName.
const (
	ProviderAES     = "aes"
	ProviderTink    = "tink"
	ProviderXChaCha = "xchacha"
)

// Key generator names accepted by KeyGeneratorByName.
const (
	KeyGenRand = "rand"
	KeyGenTink = "tink"
)

// ProviderByName returns the provider registered under name.
// An empty name selects the default AES-GCM provider.
func ProviderByName(name string) (Provider, error) {
	switch strings.ToLower(name) {
	case "", ProviderAES:
		return AESGCM{}, nil
	case ProviderTink:
		return Tink{}, nil
	case ProviderXChaCha:
		return XChaCha{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// KeyGeneratorByName returns the key generator registered under name.
// An empty name selects crypto/rand.
func KeyGeneratorByName(name string) (KeyGenerator, error) {
	switch strings.ToLower(name) {
	case "", KeyGenRand:
		return RandKeyGenerator{}, nil
	case KeyGenTink:
		return TinkKeyGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: key generator %q", ErrUnknownProvider, name)
	}
}
