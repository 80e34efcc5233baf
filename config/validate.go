// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/savedata-go/codec"
	"github.com/bitfsorg/savedata-go/compress"
	"github.com/bitfsorg/savedata-go/savecrypt"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	switch cfg.Preset {
	case "", PresetEditor, PresetRuntime:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPreset, cfg.Preset)
	}

	if _, err := savecrypt.ProviderByName(cfg.Cipher); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCipher, err)
	}

	if _, err := savecrypt.KeyGeneratorByName(cfg.KeyGen); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKeyGen, err)
	}

	if _, err := compress.ParseScheme(cfg.Compression); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCompression, err)
	}

	if _, err := codec.ByName(cfg.Codec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCodec, err)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}
