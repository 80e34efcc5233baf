// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"StorePath", cfg.StorePath, ""},
		{"Preset", cfg.Preset, PresetRuntime},
		{"Encrypt", cfg.Encrypt, true},
		{"Cipher", cfg.Cipher, "aes"},
		{"KeyGen", cfg.KeyGen, "rand"},
		{"Compression", cfg.Compression, "none"},
		{"Codec", cfg.Codec, "json"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFile", cfg.LogFile, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig round-trip tests
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := ConfigPath(dir)

	original := Config{
		StorePath:   "/tmp/test-saves",
		Preset:      PresetEditor,
		Encrypt:     false,
		Cipher:      "xchacha",
		KeyGen:      "tink",
		Compression: "zstd",
		Codec:       "msgpack",
		LogLevel:    "debug",
		LogFile:     "/tmp/savedata.log",
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if loaded != original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, original)
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", FileName)

	if err := SaveConfig(path, DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Config file not created: %v", err)
	}
}

func TestSaveConfigOverwrites(t *testing.T) {
	path := ConfigPath(t.TempDir())

	first := DefaultConfig()
	first.Cipher = "tink"
	if err := SaveConfig(path, first); err != nil {
		t.Fatal(err)
	}

	second := DefaultConfig()
	second.Cipher = "xchacha"
	if err := SaveConfig(path, second); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cipher != "xchacha" {
		t.Errorf("Cipher = %q, want %q", cfg.Cipher, "xchacha")
	}
}

// ---------------------------------------------------------------------------
// LoadConfig tests
// ---------------------------------------------------------------------------

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/savedata.yaml")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig nonexistent: got %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("cipher: [unterminated\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfig bad yaml: got %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `# partial config
cipher: tink
encrypt: false
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Cipher != "tink" {
		t.Errorf("Cipher = %q, want %q", cfg.Cipher, "tink")
	}
	if cfg.Encrypt {
		t.Error("Encrypt = true, want false")
	}
	// Unset fields should retain defaults.
	if cfg.Preset != PresetRuntime {
		t.Errorf("Preset = %q, want default %q", cfg.Preset, PresetRuntime)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, "info")
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savedata.json")
	if err := os.WriteFile(path, []byte(`{"compression": "gzip", "preset": "editor"}`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Compression != "gzip" || cfg.Preset != PresetEditor {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SAVEDATA_LOG_LEVEL", "debug")
	t.Setenv("SAVEDATA_STORE_PATH", "/srv/saves")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.StorePath != "/srv/saves" {
		t.Errorf("StorePath = %q, want %q", cfg.StorePath, "/srv/saves")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SAVEDATA_CIPHER", "xchacha")

	cfg := FromEnv()
	if cfg.Cipher != "xchacha" {
		t.Errorf("Cipher = %q, want %q", cfg.Cipher, "xchacha")
	}
	if !cfg.Encrypt {
		t.Error("Encrypt should keep its default")
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig tests
// ---------------------------------------------------------------------------

func TestValidateConfigDefaults(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Errorf("ValidateConfig(DefaultConfig()) = %v, want nil", err)
	}
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:    "bad_preset",
			modify:  func(c *Config) { c.Preset = "console" },
			wantErr: ErrInvalidPreset,
		},
		{
			name:    "bad_cipher",
			modify:  func(c *Config) { c.Cipher = "rot13" },
			wantErr: ErrInvalidCipher,
		},
		{
			name:    "bad_keygen",
			modify:  func(c *Config) { c.KeyGen = "dice" },
			wantErr: ErrInvalidKeyGen,
		},
		{
			name:    "bad_compression",
			modify:  func(c *Config) { c.Compression = "brotli" },
			wantErr: ErrInvalidCompression,
		},
		{
			name:    "bad_codec",
			modify:  func(c *Config) { c.Codec = "xml" },
			wantErr: ErrInvalidCodec,
		},
		{
			name:    "bad_loglevel",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			err := ValidateConfig(cfg)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidateConfig: got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateConfigEmptyPreset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Preset = ""
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("empty preset should be accepted: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Store path resolution
// ---------------------------------------------------------------------------

func TestDefaultStorePath(t *testing.T) {
	if got := DefaultStorePath(PresetEditor); got != filepath.Join(".", "SaveData") {
		t.Errorf("editor path = %q", got)
	}

	runtime := DefaultStorePath(PresetRuntime)
	if !strings.HasSuffix(runtime, "savedata") && !strings.HasSuffix(runtime, ".savedata") {
		t.Errorf("runtime path = %q, want savedata suffix", runtime)
	}
	if DefaultStorePath("") != runtime {
		t.Error("empty preset should resolve like runtime")
	}
}

func TestResolveStorePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorePath = "/srv/saves/"
	if got := ResolveStorePath(cfg); got != filepath.Clean("/srv/saves") {
		t.Errorf("ResolveStorePath = %q", got)
	}

	cfg.StorePath = ""
	cfg.Preset = PresetEditor
	if got := ResolveStorePath(cfg); got != DefaultStorePath(PresetEditor) {
		t.Errorf("ResolveStorePath = %q", got)
	}
}

func TestConfigPath(t *testing.T) {
	got := ConfigPath("/home/user/.savedata")
	want := filepath.Join("/home/user/.savedata", FileName)
	if got != want {
		t.Errorf("ConfigPath = %q, want %q", got, want)
	}
}
