package savecrypt

import "errors"

var (
	// ErrInvalidKey indicates a key of unsupported length.
	ErrInvalidKey = errors.New("savecrypt: invalid key length")

	// ErrInvalidCiphertext indicates the ciphertext is too short or malformed.
	ErrInvalidCiphertext = errors.New("savecrypt: invalid ciphertext")

	// ErrDecryptionFailed indicates authentication failed during decryption,
	// typically a wrong key or tampered ciphertext.
	ErrDecryptionFailed = errors.New("savecrypt: decryption failed")

	// ErrKeyGeneration indicates the random source could not produce a key.
	ErrKeyGeneration = errors.New("savecrypt: key generation failed")

	// ErrUnknownProvider indicates a provider or key generator name that is
	// not registered.
	ErrUnknownProvider = errors.New("savecrypt: unknown provider")
)
