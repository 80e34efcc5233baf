// Package codec serializes Go values into save payloads.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCodec indicates a codec name that is not registered.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec encodes and decodes values stored through the typed save helpers.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier used in configuration.
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = JSON{}

// ByName returns the codec registered under name. An empty name is Default.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "":
		return Default, nil
	case "json":
		return JSON{}, nil
	case "msgpack":
		return MsgPack{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}
