// Package record implements the on-disk framing of a single save.
//
// Layout:
//
//	offset 0          1 byte   flag (0x00 plain, 0x01 encrypted)
//	offset 1          16 bytes key (only when flag == 0x01)
//	offset 1 or 17    rest     payload (plaintext or ciphertext)
//
// The payload has no length prefix; it consumes every byte after the header,
// so a record can only be decoded from a buffer holding the whole file.
package record

import "fmt"

const (
	// KeyLen is the length of the per-record symmetric key.
	KeyLen = 16

	// FlagPlain marks a record whose payload is stored as-is.
	FlagPlain byte = 0x00

	// FlagEncrypted marks a record whose payload is ciphertext under the
	// embedded key.
	FlagEncrypted byte = 0x01

	// HeaderLen is the header size of a plain record.
	HeaderLen = 1
)

// Record is the decoded form of one save file.
type Record struct {
	// Encrypted reports whether Payload is ciphertext.
	Encrypted bool

	// Key is the 16-byte key the payload was encrypted with. Nil for plain
	// records.
	Key []byte

	// Payload is plaintext when Encrypted is false, ciphertext otherwise.
	Payload []byte
}

// EncodedLen returns the encoded size of a record with the given flag and
// payload length.
func EncodedLen(encrypted bool, payloadLen int) int {
	if encrypted {
		return HeaderLen + KeyLen + payloadLen
	}
	return HeaderLen + payloadLen
}

// Encode serializes r into a freshly allocated buffer.
// The key is written only for encrypted records and must be exactly KeyLen
// bytes; for plain records it is ignored.
func Encode(r Record) ([]byte, error) {
	if r.Encrypted && len(r.Key) != KeyLen {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKey, len(r.Key))
	}

	buf := make([]byte, 0, EncodedLen(r.Encrypted, len(r.Payload)))
	if r.Encrypted {
		buf = append(buf, FlagEncrypted)
		buf = append(buf, r.Key...)
	} else {
		buf = append(buf, FlagPlain)
	}
	buf = append(buf, r.Payload...)
	return buf, nil
}

// Decode parses a whole-file buffer. The returned Key and Payload are copies
// and do not alias buf. Payload is never nil.
func Decode(buf []byte) (Record, error) {
	if len(buf) < HeaderLen {
		return Record{}, fmt.Errorf("%w: empty buffer", ErrCorruptRecord)
	}

	switch buf[0] {
	case FlagPlain:
		return Record{
			Payload: clone(buf[HeaderLen:]),
		}, nil
	case FlagEncrypted:
		if len(buf) < HeaderLen+KeyLen {
			return Record{}, fmt.Errorf("%w: encrypted record has %d bytes, need at least %d",
				ErrCorruptRecord, len(buf), HeaderLen+KeyLen)
		}
		return Record{
			Encrypted: true,
			Key:       clone(buf[HeaderLen : HeaderLen+KeyLen]),
			Payload:   clone(buf[HeaderLen+KeyLen:]),
		}, nil
	default:
		return Record{}, fmt.Errorf("%w: unknown flag 0x%02x", ErrCorruptRecord, buf[0])
	}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
