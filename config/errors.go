// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidPreset indicates the store path preset is not recognized.
	ErrInvalidPreset = errors.New("config: invalid preset (must be \"editor\" or \"runtime\")")

	// ErrInvalidCipher indicates the cipher name is not a registered provider.
	ErrInvalidCipher = errors.New("config: invalid cipher")

	// ErrInvalidKeyGen indicates the key generator name is not registered.
	ErrInvalidKeyGen = errors.New("config: invalid key generator")

	// ErrInvalidCompression indicates the compression scheme is not recognized.
	ErrInvalidCompression = errors.New("config: invalid compression")

	// ErrInvalidCodec indicates the value codec is not recognized.
	ErrInvalidCodec = errors.New("config: invalid codec")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfig indicates the configuration file could not be parsed.
	ErrInvalidConfig = errors.New("config: invalid configuration file")
)
