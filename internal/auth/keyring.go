package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/zalando/go-keyring"
)

const serviceName = "chino"

// Credentials holds the persisted session tokens for one API origin.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Store handles credential storage, preferring the system keychain.
type Store struct {
	useKeyring  bool
	fallbackDir string
}

// NewStore creates a credential store.
func NewStore(fallbackDir string) *Store {
	// Skip keyring for tests or when explicitly disabled
	if os.Getenv("CHINO_NO_KEYRING") != "" {
		return &Store{useKeyring: false, fallbackDir: fallbackDir}
	}

	// Test if keyring is available
	testKey := "chino::test"
	err := keyring.Set(serviceName, testKey, "test")
	if err == nil {
		_ = keyring.Delete(serviceName, testKey) // Best-effort cleanup
		return &Store{useKeyring: true, fallbackDir: fallbackDir}
	}
	fmt.Fprintf(os.Stderr, "warning: system keyring unavailable, credentials stored in plaintext at %s\n",
		filepath.Join(fallbackDir, "credentials.json"))
	return &Store{useKeyring: false, fallbackDir: fallbackDir}
}

func key(origin string) string {
	return fmt.Sprintf("chino::%s", origin)
}

// Load retrieves credentials for the given origin.
func (s *Store) Load(origin string) (*Credentials, error) {
	if s.useKeyring {
		return s.loadFromKeyring(origin)
	}
	return s.loadFromFile(origin)
}

// Save stores credentials for the given origin.
func (s *Store) Save(origin string, creds *Credentials) error {
	if s.useKeyring {
		return s.saveToKeyring(origin, creds)
	}
	return s.saveToFile(origin, creds)
}

// Delete removes credentials for the given origin.
func (s *Store) Delete(origin string) error {
	if s.useKeyring {
		return keyring.Delete(serviceName, key(origin))
	}
	return s.deleteFile(origin)
}

// UsingKeyring returns true if the store is using the system keyring.
func (s *Store) UsingKeyring() bool {
	return s.useKeyring
}

// Keyring methods

func (s *Store) loadFromKeyring(origin string) (*Credentials, error) {
	data, err := keyring.Get(serviceName, key(origin))
	if err != nil {
		return nil, fmt.Errorf("credentials not found: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}
	return &creds, nil
}

func (s *Store) saveToKeyring(origin string, creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, key(origin), string(data))
}

// File fallback methods. The credentials file is shared by every chino
// process on the machine, so reads and writes are guarded by a file lock.

func (s *Store) credentialsPath() string {
	return filepath.Join(s.fallbackDir, "credentials.json")
}

func (s *Store) lockPath() string {
	return filepath.Join(s.fallbackDir, "credentials.lock")
}

func (s *Store) withLock(fn func() error) error {
	if err := os.MkdirAll(s.fallbackDir, 0o700); err != nil {
		return err
	}
	lock := flock.New(s.lockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock credential store: %w", err)
	}
	defer lock.Unlock() //nolint:errcheck
	return fn()
}

func (s *Store) loadAll() (map[string]*Credentials, error) {
	data, err := os.ReadFile(s.credentialsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*Credentials), nil
		}
		return nil, err
	}

	var all map[string]*Credentials
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *Store) saveAll(all map[string]*Credentials) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	// Atomic write with randomized temp file name
	tmpFile, err := os.CreateTemp(s.fallbackDir, "credentials-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Chmod(0o600); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.credentialsPath()); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (s *Store) loadFromFile(origin string) (*Credentials, error) {
	var creds *Credentials
	err := s.withLock(func() error {
		all, err := s.loadAll()
		if err != nil {
			return err
		}
		c, ok := all[origin]
		if !ok {
			return fmt.Errorf("credentials not found for %s", origin)
		}
		creds = c
		return nil
	})
	return creds, err
}

func (s *Store) saveToFile(origin string, creds *Credentials) error {
	return s.withLock(func() error {
		all, err := s.loadAll()
		if err != nil {
			return err
		}
		all[origin] = creds
		return s.saveAll(all)
	})
}

func (s *Store) deleteFile(origin string) error {
	return s.withLock(func() error {
		all, err := s.loadAll()
		if err != nil {
			return err
		}
		delete(all, origin)
		return s.saveAll(all)
	})
}
