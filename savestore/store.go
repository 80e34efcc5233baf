// Package savestore persists opaque named blobs ("saves") as single files in a
// flat directory, optionally encrypting each write under a fresh random key.
//
// A save named "slot1" lives at {storePath}/slot1.sav and holds one record
// (see package record). The Store keeps one exclusive write handle per name
// that it has written to. A handle is reused by later saves of the same name
// and released when that name is loaded or deleted, or when the Store is
// disposed.
//
// Operations on different names may run concurrently. Operations on the same
// name must be serialized by the caller; racing saves leave the last writer's
// record and a load racing a save may observe a torn file.
package savestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bitfsorg/savedata-go/codec"
	"github.com/bitfsorg/savedata-go/compress"
	"github.com/bitfsorg/savedata-go/config"
	"github.com/bitfsorg/savedata-go/logger"
	"github.com/bitfsorg/savedata-go/record"
	"github.com/bitfsorg/savedata-go/savecrypt"
)

// Extension is the file extension of save files.
const Extension = ".sav"

// Options configures a Store. Zero fields take the defaults noted on each.
type Options struct {
	// StorePath is the store directory. Empty selects the Preset directory.
	StorePath string

	// Preset picks the default directory when StorePath is empty
	// (config.PresetRuntime when empty).
	Preset config.Preset

	// Provider encrypts payloads (savecrypt.AESGCM when nil).
	Provider savecrypt.Provider

	// KeyGen produces per-write keys (savecrypt.RandKeyGenerator when nil).
	KeyGen savecrypt.KeyGenerator

	// Compression filters payloads before encryption (compress.None).
	Compression compress.Scheme

	// Codec serializes values for SaveValue and LoadValue (codec.Default when nil).
	Codec codec.Codec

	// Logger receives diagnostics (discarded when nil).
	Logger logger.Logger
}

// Store maps save names to files in one directory.
type Store struct {
	path     string
	provider savecrypt.Provider
	keyGen   savecrypt.KeyGenerator
	scheme   compress.Scheme
	codec    codec.Codec
	log      logger.Logger
	closer   io.Closer // log file opened by NewFromConfig

	mu      sync.Mutex
	handles map[string]*handle
	ready   bool
}

// handle is an open, exclusively locked write handle for one name.
// f is nil and closed is set once the handle has been released.
type handle struct {
	mu     sync.Mutex
	f      *os.File
	closed atomic.Bool
}

// refersTo reports whether h.f is still the file at path. The caller holds
// h.mu.
func (h *handle) refersTo(path string) bool {
	open, err := h.f.Stat()
	if err != nil {
		return false
	}
	onDisk, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(open, onDisk)
}

// New creates a Store. The store directory is not created until the first
// save.
func New(opts Options) (*Store, error) {
	if !opts.Compression.Valid() {
		return nil, fmt.Errorf("%w: %s", compress.ErrUnsupportedCompression, opts.Compression)
	}

	s := &Store{
		path:     opts.StorePath,
		provider: opts.Provider,
		keyGen:   opts.KeyGen,
		scheme:   opts.Compression,
		codec:    opts.Codec,
		log:      opts.Logger,
		handles:  make(map[string]*handle),
		ready:    true,
	}
	if s.path == "" {
		s.path = config.DefaultStorePath(opts.Preset)
	}
	s.path = filepath.Clean(s.path)
	if s.provider == nil {
		s.provider = savecrypt.AESGCM{}
	}
	if s.keyGen == nil {
		s.keyGen = savecrypt.RandKeyGenerator{}
	}
	if s.codec == nil {
		s.codec = codec.Default
	}
	if s.log == nil {
		s.log = logger.NoOp()
	}
	return s, nil
}

// NewFromConfig validates cfg and builds a Store from it. When cfg.LogFile is
// set the file is opened for appending and closed by Close.
func NewFromConfig(cfg config.Config) (*Store, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	provider, err := savecrypt.ProviderByName(cfg.Cipher)
	if err != nil {
		return nil, err
	}
	keyGen, err := savecrypt.KeyGeneratorByName(cfg.KeyGen)
	if err != nil {
		return nil, err
	}
	scheme, err := compress.ParseScheme(cfg.Compression)
	if err != nil {
		return nil, err
	}
	c, err := codec.ByName(cfg.Codec)
	if err != nil {
		return nil, err
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	log := logger.NewLogger(level)
	var logFile *os.File
	if cfg.LogFile != "" {
		logFile, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("%w: open log file: %w", ErrIOFailure, err)
		}
		log.SetWriter(logFile)
	}

	s, err := New(Options{
		StorePath:   cfg.StorePath,
		Preset:      cfg.Preset,
		Provider:    provider,
		KeyGen:      keyGen,
		Compression: scheme,
		Codec:       c,
		Logger:      log,
	})
	if err != nil {
		if logFile != nil {
			_ = logFile.Close()
		}
		return nil, err
	}
	if logFile != nil {
		s.closer = logFile
	}
	return s, nil
}

// Path returns the store directory.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// OpenHandles returns the number of write handles currently held.
func (s *Store) OpenHandles() int {
	if !s.initialized() {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.handles {
		if !h.closed.Load() {
			n++
		}
	}
	return n
}

func (s *Store) initialized() bool {
	return s != nil && s.ready
}

// validateName rejects names that are empty or would not map to a single
// file directly inside the store directory.
func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator or NUL", ErrInvalidName, name)
	}
	return nil
}

// FilePath returns the file path of the save named name. With
// autoCreateFolder set, the store directory (and any missing parents) is
// created when absent.
func (s *Store) FilePath(name string, autoCreateFolder bool) (string, error) {
	if !s.initialized() {
		return "", ErrNotInitialized
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	if autoCreateFolder {
		if err := os.MkdirAll(s.path, 0700); err != nil {
			return "", fmt.Errorf("%w: create store directory: %w", ErrIOFailure, err)
		}
	}
	return filepath.Join(s.path, name+Extension), nil
}

// Exists reports whether a readable regular file exists for name. The answer
// may be stale by the time the caller acts on it.
func (s *Store) Exists(name string) bool {
	path, err := s.FilePath(name, false)
	if err != nil {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	return err == nil && info.Mode().IsRegular()
}

// Size returns the on-disk size of the save file for name.
func (s *Store) Size(name string) (int64, error) {
	path, err := s.FilePath(name, false)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return 0, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return info.Size(), nil
}

// List returns the names of all saves in the store directory, sorted.
// A missing directory yields an empty list.
func (s *Store) List() ([]string, error) {
	if !s.initialized() {
		return nil, ErrNotInitialized
	}

	entries, err := os.ReadDir(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), Extension)
		if !ok || validateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// SaveData writes data as the save named name, replacing any previous save.
// When encrypt is set the payload is encrypted under a fresh random key that
// is stored in the record. The file is synced to disk before SaveData
// returns. On a failed write the file is truncated so that a later load
// reports ErrCorruptRecord instead of returning stale data.
func (s *Store) SaveData(name string, data []byte, encrypt bool) error {
	if !s.initialized() {
		return ErrNotInitialized
	}
	if data == nil {
		return ErrNilData
	}
	path, err := s.FilePath(name, true)
	if err != nil {
		return err
	}

	buf, err := s.encode(data, encrypt)
	if err != nil {
		s.log.Errorf("Failed to encode save %q: %v", name, err)
		return err
	}

	h, err := s.lockedHandle(name, path)
	if err != nil {
		s.log.Errorf("Failed to open save %q: %v", name, err)
		return err
	}
	defer h.mu.Unlock()

	if err := writeRecord(h.f, buf); err != nil {
		s.log.Errorf("Failed to write save %q: %v", name, err)
		if terr := h.f.Truncate(0); terr != nil {
			s.log.Warnf("Failed to truncate save %q after write error: %v", name, terr)
		}
		s.closeLocked(name, h)
		return fmt.Errorf("%w: write %s: %w", ErrIOFailure, name, err)
	}

	s.log.Debugf("Saved %q (%d bytes, encrypted=%t)", name, len(buf), encrypt)
	return nil
}

// Save writes text as UTF-8. See SaveData.
func (s *Store) Save(name, text string, encrypt bool) error {
	return s.SaveData(name, []byte(text), encrypt)
}

// SaveValue serializes v with the store codec and saves it. See SaveData.
func (s *Store) SaveValue(name string, v any, encrypt bool) error {
	if !s.initialized() {
		return ErrNotInitialized
	}
	data, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("savestore: marshal %s with %s: %w", name, s.codec.Name(), err)
	}
	return s.SaveData(name, data, encrypt)
}

// encode builds the complete on-disk record for data.
func (s *Store) encode(data []byte, encrypt bool) ([]byte, error) {
	payload, err := compress.Compress(data, s.scheme)
	if err != nil {
		return nil, fmt.Errorf("savestore: compress: %w", err)
	}

	rec := record.Record{Payload: payload}
	if encrypt {
		key, err := s.keyGen.GenerateKey(record.KeyLen)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCryptoFailure, err)
		}
		ct, err := s.provider.Encrypt(payload, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCryptoFailure, err)
		}
		rec = record.Record{Encrypted: true, Key: key, Payload: ct}
	}

	buf, err := record.Encode(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoFailure, err)
	}
	return buf, nil
}

// writeRecord is swapped out in tests to simulate a failing disk.
var writeRecord = writeRecordFile

// writeRecordFile replaces the contents of f with buf and syncs it.
func writeRecordFile(f *os.File, buf []byte) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write(buf); err != nil {
		return err
	}
	if err := f.Truncate(int64(len(buf))); err != nil {
		return err
	}
	return f.Sync()
}

// LoadData reads the save named name, decrypting it if needed. Any write
// handle held for name is released first. A missing file yields ErrNotFound;
// a malformed file, or one that fails decryption, yields ErrCorruptRecord.
func (s *Store) LoadData(name string) ([]byte, error) {
	if !s.initialized() {
		return nil, ErrNotInitialized
	}
	path, err := s.FilePath(name, false)
	if err != nil {
		return nil, err
	}

	s.release(name)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: read %s: %w", ErrIOFailure, name, err)
	}

	rec, err := record.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("savestore: %s: %w", name, err)
	}

	payload := rec.Payload
	if rec.Encrypted {
		payload, err = s.provider.Decrypt(rec.Payload, rec.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %w", ErrCorruptRecord, ErrCryptoFailure, err)
		}
	}

	data, err := compress.Decompress(payload, s.scheme)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s: %w", ErrCorruptRecord, name, err)
	}
	return data, nil
}

// Load reads a save written by Save as text. See LoadData.
func (s *Store) Load(name string) (string, error) {
	data, err := s.LoadData(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadValue loads a save and deserializes it into v with the store codec.
func (s *Store) LoadValue(name string, v any) error {
	data, err := s.LoadData(name)
	if err != nil {
		return err
	}
	if err := s.codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: unmarshal %s with %s: %w", ErrCorruptRecord, name, s.codec.Name(), err)
	}
	return nil
}

// TryLoadData distinguishes a missing save from an empty one: found is false
// when no save exists for name or it cannot be loaded, and true with a
// non-nil (possibly empty) slice otherwise.
func (s *Store) TryLoadData(name string) ([]byte, bool) {
	if !s.Exists(name) {
		return nil, false
	}
	data, err := s.LoadData(name)
	if err != nil {
		if s.initialized() {
			s.log.Warnf("Failed to load save %q: %v", name, err)
		}
		return nil, false
	}
	return data, true
}

// TryLoad is TryLoadData for text saves.
func (s *Store) TryLoad(name string) (string, bool) {
	data, ok := s.TryLoadData(name)
	if !ok {
		return "", false
	}
	return string(data), true
}

// Delete removes the save named name and releases its write handle.
// Deleting a save that does not exist is not an error.
func (s *Store) Delete(name string) error {
	if !s.initialized() {
		return ErrNotInitialized
	}
	path, err := s.FilePath(name, false)
	if err != nil {
		return err
	}

	s.release(name)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		s.log.Errorf("Failed to delete save %q: %v", name, err)
		return fmt.Errorf("%w: delete %s: %w", ErrIOFailure, name, err)
	}
	s.log.Debugf("Deleted %q", name)
	return nil
}

// Dispose releases every write handle. It is idempotent and the Store stays
// usable; later saves open new handles.
func (s *Store) Dispose() {
	if !s.initialized() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for name, h := range s.handles {
		h.mu.Lock()
		s.closeLocked(name, h)
		h.mu.Unlock()
	}
	s.handles = make(map[string]*handle)
}

// Close disposes the Store and closes the log file opened by NewFromConfig.
func (s *Store) Close() error {
	s.Dispose()
	if !s.initialized() {
		return nil
	}

	s.mu.Lock()
	c := s.closer
	s.closer = nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// lockedHandle returns the open write handle for name with its mutex held,
// opening and locking the file if the Store holds none.
func (s *Store) lockedHandle(name, path string) (*handle, error) {
	for {
		h, err := s.acquire(name, path)
		if err != nil {
			return nil, err
		}
		h.mu.Lock()
		if h.f != nil {
			return h, nil
		}
		// Released between acquire and lock; take a fresh one.
		h.mu.Unlock()
	}
}

func (s *Store) acquire(name, path string) (*handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.handles[name]; ok && !h.closed.Load() {
		h.mu.Lock()
		current := h.f != nil && h.refersTo(path)
		if !current {
			// The file was removed or replaced behind our back.
			s.log.Warnf("Write handle for %q no longer matches %s; reopening", name, path)
			s.closeLocked(name, h)
		}
		h.mu.Unlock()
		if current {
			s.log.Debugf("Reusing write handle for %q", name)
			return h, nil
		}
		delete(s.handles, name)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIOFailure, name, err)
	}
	if err := lockHandle(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	h := &handle{f: f}
	s.handles[name] = h
	s.log.Debugf("Opened write handle for %q", name)
	return h, nil
}

// release closes and forgets the write handle for name, if any. The store
// mutex is held until the file is closed so that no new handle for name can
// be opened while the old one still holds the file lock.
func (s *Store) release(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[name]
	if !ok {
		return
	}
	delete(s.handles, name)
	h.mu.Lock()
	s.closeLocked(name, h)
	h.mu.Unlock()
}

// closeLocked closes h, whose mutex the caller holds. A closed handle left in
// the map is replaced by the next acquire.
func (s *Store) closeLocked(name string, h *handle) {
	if h.f == nil {
		return
	}
	h.closed.Store(true)
	unlockHandle(h.f)
	if err := h.f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		s.log.Warnf("Failed to close write handle for %q: %v", name, err)
	}
	h.f = nil
	s.log.Debugf("Closed write handle for %q", name)
}
