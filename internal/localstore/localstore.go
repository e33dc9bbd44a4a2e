// Package localstore provides the small set of durable key/value entries
// this client owns: the bearer token, the customer session flags, and
// cached cart/wishlist counts. Values live in a single JSON file guarded
// by an advisory file lock so concurrent pasal processes cannot interleave
// read-modify-write cycles.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// Fixed storage keys. These are the only externally durable state the
// state layer owns.
const (
	KeyAuthToken     = "authToken"
	KeyCustomerAuth  = "customerAuth"
	KeyCustomerUser  = "customerUser"
	KeyCartCount     = "cartCount"
	KeyWishlistCount = "wishlistCount"
)

const fileName = "local.json"

// Store reads and writes the local state file.
type Store struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// New creates a store rooted at dir. The directory is created on first
// write.
func New(dir string) *Store {
	path := filepath.Join(dir, fileName)
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.read()
	v, ok := data[key]
	return v, ok
}

// GetBool interprets the stored value as a boolean flag ("true").
func (s *Store) GetBool(key string) bool {
	v, ok := s.Get(key)
	return ok && v == "true"
}

// Set writes key=value.
func (s *Store) Set(key, value string) error {
	return s.update(func(data map[string]string) {
		data[key] = value
	})
}

// SetBool writes key as a "true"/"false" flag.
func (s *Store) SetBool(key string, value bool) error {
	if value {
		return s.Set(key, "true")
	}
	return s.Set(key, "false")
}

// Delete removes the given keys.
func (s *Store) Delete(keys ...string) error {
	return s.update(func(data map[string]string) {
		for _, k := range keys {
			delete(data, k)
		}
	})
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(map[string]string{})
}

func (s *Store) update(fn func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err == nil {
		defer func() { _ = s.lock.Unlock() }()
	}

	data := s.read()
	fn(data)
	return s.write(data)
}

// read returns the current contents, treating a missing or corrupted file
// as empty.
func (s *Store) read() map[string]string {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}
	var data map[string]string
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		return map[string]string{}
	}
	return data
}

func (s *Store) write(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
