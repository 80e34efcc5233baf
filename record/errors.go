package record

import "errors"

var (
	// ErrCorruptRecord indicates the buffer is too short for the layout its
	// own flag byte implies, or the flag byte is not 0x00/0x01.
	ErrCorruptRecord = errors.New("record: corrupt record")

	// ErrInvalidKey indicates an encrypted record whose key is not KeyLen bytes.
	ErrInvalidKey = errors.New("record: key must be 16 bytes")
)
