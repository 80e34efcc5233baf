package savecrypt

import (
	"crypto/rand"
	"fmt"
)

// RandKeyGenerator draws keys from crypto/rand. It is the default.
type RandKeyGenerator struct{}

// GenerateKey returns length random bytes.
func (RandKeyGenerator) GenerateKey(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrKeyGeneration, length)
	}
	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}
	return key, nil
}
