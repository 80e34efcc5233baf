// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config holds the settings a save store is built from: where saves
// live, which cipher protects them and how the store logs.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/natefinch/atomic"
	"github.com/spf13/viper"
)

// Preset selects a default store directory when no explicit path is given.
type Preset string

const (
	// PresetEditor keeps saves next to the working directory, for tooling
	// and development runs.
	PresetEditor Preset = "editor"

	// PresetRuntime keeps saves in the per-user configuration directory.
	PresetRuntime Preset = "runtime"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. SAVEDATA_STORE_PATH.
const EnvPrefix = "SAVEDATA"

// FileName is the default configuration file name inside a data directory.
const FileName = "savedata.yaml"

// Config keys as they appear in configuration files.
const (
	keyStorePath   = "store_path"
	keyPreset      = "preset"
	keyEncrypt     = "encrypt"
	keyCipher      = "cipher"
	keyKeyGen      = "keygen"
	keyCompression = "compression"
	keyCodec       = "codec"
	keyLogLevel    = "log_level"
	keyLogFile     = "log_file"
)

// Config describes a save store.
type Config struct {
	StorePath   string // explicit store directory; overrides Preset
	Preset      Preset // default directory preset when StorePath is empty
	Encrypt     bool   // savectl save default when neither --encrypt nor --plain is given
	Cipher      string // savecrypt provider name
	KeyGen      string // savecrypt key generator name
	Compression string // compress scheme name
	Codec       string // codec name for typed saves
	LogLevel    string
	LogFile     string // empty logs to stderr
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Preset:      PresetRuntime,
		Encrypt:     true,
		Cipher:      "aes",
		KeyGen:      "rand",
		Compression: "none",
		Codec:       "json",
		LogLevel:    "info",
	}
}

// DefaultStorePath returns the store directory for a preset. An empty preset
// is treated as PresetRuntime.
func DefaultStorePath(p Preset) string {
	if p == PresetEditor {
		return filepath.Join(".", "SaveData")
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "savedata")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".savedata")
	}
	return filepath.Join(os.TempDir(), "savedata")
}

// ResolveStorePath returns the effective store directory of cfg.
func ResolveStorePath(cfg Config) string {
	if cfg.StorePath != "" {
		return filepath.Clean(cfg.StorePath)
	}
	return DefaultStorePath(cfg.Preset)
}

// ConfigPath returns the path of the configuration file in dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// LoadConfig reads the configuration file at path. Keys missing from the
// file keep their DefaultConfig values, and SAVEDATA_* environment variables
// override both. The file format follows the extension (yaml when none).
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	v := newViper()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return fromViper(v), nil
}

// FromEnv returns DefaultConfig with SAVEDATA_* environment overrides applied.
func FromEnv() Config {
	return fromViper(newViper())
}

// SaveConfig writes cfg to path as yaml, replacing any existing file
// atomically. Parent directories are created as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var buf bytes.Buffer
	writeLine := func(key, value string) {
		fmt.Fprintf(&buf, "%s: %s\n", key, value)
	}
	writeLine(keyStorePath, strconv.Quote(cfg.StorePath))
	writeLine(keyPreset, strconv.Quote(string(cfg.Preset)))
	writeLine(keyEncrypt, strconv.FormatBool(cfg.Encrypt))
	writeLine(keyCipher, strconv.Quote(cfg.Cipher))
	writeLine(keyKeyGen, strconv.Quote(cfg.KeyGen))
	writeLine(keyCompression, strconv.Quote(cfg.Compression))
	writeLine(keyCodec, strconv.Quote(cfg.Codec))
	writeLine(keyLogLevel, strconv.Quote(cfg.LogLevel))
	writeLine(keyLogFile, strconv.Quote(cfg.LogFile))

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault(keyStorePath, def.StorePath)
	v.SetDefault(keyPreset, string(def.Preset))
	v.SetDefault(keyEncrypt, def.Encrypt)
	v.SetDefault(keyCipher, def.Cipher)
	v.SetDefault(keyKeyGen, def.KeyGen)
	v.SetDefault(keyCompression, def.Compression)
	v.SetDefault(keyCodec, def.Codec)
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyLogFile, def.LogFile)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) Config {
	return Config{
		StorePath:   v.GetString(keyStorePath),
		Preset:      Preset(v.GetString(keyPreset)),
		Encrypt:     v.GetBool(keyEncrypt),
		Cipher:      v.GetString(keyCipher),
		KeyGen:      v.GetString(keyKeyGen),
		Compression: v.GetString(keyCompression),
		Codec:       v.GetString(keyCodec),
		LogLevel:    v.GetString(keyLogLevel),
		LogFile:     v.GetString(keyLogFile),
	}
}
