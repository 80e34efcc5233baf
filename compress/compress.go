// Package compress implements the optional payload filter applied to a save
// before encryption and after decryption. The scheme is a store-wide setting
// and is not recorded in the save file.
package compress

import (
	"bytes"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Scheme identifies a compression algorithm.
type Scheme int32

// Supported schemes.
const (
	None Scheme = iota
	LZW
	GZIP
	ZSTD
)

// MaxDecompressedSize bounds the output of Decompress (256 MB).
const MaxDecompressedSize = 256 << 20

func (s Scheme) String() string {
	switch s {
	case None:
		return "none"
	case LZW:
		return "lzw"
	case GZIP:
		return "gzip"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("scheme(%d)", int32(s))
	}
}

// Valid reports whether s is a supported scheme.
func (s Scheme) Valid() bool {
	return s >= None && s <= ZSTD
}

// ParseScheme converts a scheme name to a Scheme. An empty name is None.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, nil
	case "lzw":
		return LZW, nil
	case "gzip":
		return GZIP, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnsupportedCompression, name)
	}
}

// Compress compresses data using the specified scheme.
func Compress(data []byte, scheme Scheme) ([]byte, error) {
	switch scheme {
	case None:
		return data, nil
	case LZW:
		return compressLZW(data)
	case GZIP:
		return compressGZIP(data)
	case ZSTD:
		return compressZSTD(data)
	default:
		return nil, ErrUnsupportedCompression
	}
}

// Decompress decompresses data using the specified scheme.
func Decompress(data []byte, scheme Scheme) ([]byte, error) {
	switch scheme {
	case None:
		return data, nil
	case LZW:
		return decompressLZW(data)
	case GZIP:
		return decompressGZIP(data)
	case ZSTD:
		return decompressZSTD(data)
	default:
		return nil, ErrUnsupportedCompression
	}
}

func compressLZW(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, lzw.LSB, 8)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressLZW(data []byte) ([]byte, error) {
	r := lzw.NewReader(bytes.NewReader(data), lzw.LSB, 8)
	defer r.Close()
	return readLimited(r)
}

func compressGZIP(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressGZIP(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return readLimited(r)
}

func compressZSTD(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithZeroFrames(true))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func decompressZSTD(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderMaxMemory(MaxDecompressedSize))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return readLimited(dec)
}

// readLimited reads r to EOF, failing once more than MaxDecompressedSize
// bytes are produced.
func readLimited(r io.Reader) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, err
	}
	if len(out) > MaxDecompressedSize {
		return nil, ErrDecompressedTooLarge
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}
