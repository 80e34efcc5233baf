package savestore

import (
	"errors"

	"github.com/bitfsorg/savedata-go/record"
)

var (
	// ErrNotInitialized indicates an operation on a Store that was not built
	// with New or NewFromConfig.
	ErrNotInitialized = errors.New("savestore: store not initialized")

	// ErrInvalidName indicates an empty name or one that would escape the
	// flat store directory.
	ErrInvalidName = errors.New("savestore: invalid save name")

	// ErrNilData indicates an attempt to save nil data.
	ErrNilData = errors.New("savestore: data is nil")

	// ErrNotFound indicates no save file exists for the name.
	ErrNotFound = errors.New("savestore: save not found")

	// ErrIOFailure indicates a file read/write error.
	ErrIOFailure = errors.New("savestore: I/O failure")

	// ErrCryptoFailure indicates key generation, encryption or decryption
	// failed. Load failures of this kind also match ErrCorruptRecord.
	ErrCryptoFailure = errors.New("savestore: crypto failure")

	// ErrHandleLocked indicates another handle, usually in another process,
	// holds the exclusive write lock on the save file.
	ErrHandleLocked = errors.New("savestore: save file locked by another writer")

	// ErrCorruptRecord indicates the save file does not hold a valid record.
	ErrCorruptRecord = record.ErrCorruptRecord
)
