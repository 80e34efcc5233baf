package record

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, KeyLen)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

// --- Encode tests ---

func TestEncode_Plain(t *testing.T) {
	buf, err := Encode(Record{Payload: []byte("world")})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 'w', 'o', 'r', 'l', 'd'}, buf)
}

func TestEncode_PlainIgnoresKey(t *testing.T) {
	buf, err := Encode(Record{Key: []byte{1, 2, 3}, Payload: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 'x'}, buf)
}

func TestEncode_Encrypted(t *testing.T) {
	key := testKey()
	buf, err := Encode(Record{Encrypted: true, Key: key, Payload: []byte{0xAA, 0xBB}})
	require.NoError(t, err)

	require.Len(t, buf, 1+KeyLen+2)
	assert.Equal(t, FlagEncrypted, buf[0])
	assert.Equal(t, key, buf[1:1+KeyLen])
	assert.Equal(t, []byte{0xAA, 0xBB}, buf[1+KeyLen:])
}

func TestEncode_EncryptedInvalidKey(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
	}{
		{"nil", nil},
		{"short", make([]byte, 15)},
		{"long", make([]byte, 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(Record{Encrypted: true, Key: tt.key, Payload: []byte("p")})
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestEncode_EmptyPayload(t *testing.T) {
	buf, err := Encode(Record{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, buf)

	buf, err = Encode(Record{Encrypted: true, Key: testKey()})
	require.NoError(t, err)
	assert.Len(t, buf, 1+KeyLen)
}

func TestEncodedLen(t *testing.T) {
	assert.Equal(t, 6, EncodedLen(false, 5))
	assert.Equal(t, 22, EncodedLen(true, 5))
	assert.Equal(t, 1, EncodedLen(false, 0))
}

// --- Decode tests ---

func TestDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"plain", Record{Payload: []byte("hello")}},
		{"plain empty", Record{Payload: []byte{}}},
		{"encrypted", Record{Encrypted: true, Key: testKey(), Payload: []byte("ciphertext")}},
		{"encrypted empty", Record{Encrypted: true, Key: testKey(), Payload: []byte{}}},
		{"binary", Record{Payload: []byte{0x00, 0x01, 0xFF}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Encode(tt.rec)
			require.NoError(t, err)

			got, err := Decode(buf)
			require.NoError(t, err)
			assert.Equal(t, tt.rec.Encrypted, got.Encrypted)
			assert.Equal(t, tt.rec.Payload, got.Payload)
			if tt.rec.Encrypted {
				assert.Equal(t, tt.rec.Key, got.Key)
			} else {
				assert.Nil(t, got.Key)
			}
		})
	}
}

func TestDecode_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"encrypted flag only", []byte{FlagEncrypted}},
		{"encrypted short key", append([]byte{FlagEncrypted}, make([]byte, KeyLen-1)...)},
		{"unknown flag", []byte{0x02, 'a'}},
		{"high flag", []byte{0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.buf)
			assert.ErrorIs(t, err, ErrCorruptRecord)
		})
	}
}

func TestDecode_PlainFlagOnly(t *testing.T) {
	rec, err := Decode([]byte{FlagPlain})
	require.NoError(t, err)
	assert.False(t, rec.Encrypted)
	assert.NotNil(t, rec.Payload)
	assert.Empty(t, rec.Payload)
}

func TestDecode_DoesNotAlias(t *testing.T) {
	buf, err := Encode(Record{Encrypted: true, Key: testKey(), Payload: []byte("abc")})
	require.NoError(t, err)

	rec, err := Decode(buf)
	require.NoError(t, err)

	for i := range buf {
		buf[i] = 0
	}
	assert.Equal(t, testKey(), rec.Key)
	assert.Equal(t, []byte("abc"), rec.Payload)
}

// FuzzDecodeNoPanic ensures Decode never panics and that anything it accepts
// re-encodes to the same bytes.
func FuzzDecodeNoPanic(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0x01})
	f.Add(append([]byte{0x01}, make([]byte, KeyLen)...))
	f.Add([]byte{0x00, 'h', 'i'})

	f.Fuzz(func(t *testing.T, buf []byte) {
		rec, err := Decode(buf)
		if err != nil {
			return
		}
		again, err := Encode(rec)
		if err != nil {
			t.Fatalf("Encode after Decode: %v", err)
		}
		if !bytes.Equal(again, buf) {
			t.Fatalf("re-encode mismatch: got %x, want %x", again, buf)
		}
	})
}
