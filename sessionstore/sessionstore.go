// Package sessionstore keeps the TMDB session between command invocations in
// the OS keyring. Only the session id, account id and username are stored;
// credentials never are.
package sessionstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"github.com/mattn/go-isatty"

	"github.com/s0up4200/favmovies/tmdb"
)

const (
	serviceName = "favmovies"
	sessionKey  = "session"

	// EnvKeyringPassword unlocks the file backend without a prompt.
	EnvKeyringPassword = "FAVMOVIES_KEYRING_PASSWORD"
)

// Backend selects where sessions are kept.
const (
	BackendAuto   = "auto"
	BackendFile   = "file"
	BackendSystem = "system"
)

// ErrNoSession indicates no session was saved, e.g. before the first login.
var ErrNoSession = errors.New("no saved session, run 'favmovies login' first")

// Record is what the keyring holds.
type Record struct {
	tmdb.Session
	CreatedAt time.Time `json:"created_at"`
}

// Store saves and restores a session.
type Store struct {
	ring keyring.Keyring
	now  func() time.Time
}

// New wraps an opened keyring.
func New(ring keyring.Keyring) *Store {
	return &Store{ring: ring, now: time.Now}
}

// Options configure Open.
type Options struct {
	Backend string
	// FileDir holds the encrypted files of the file backend.
	FileDir string
}

// openKeyring can be replaced in tests.
var openKeyring = keyring.Open

// Open opens the keyring selected by opts.
func Open(opts Options) (*Store, error) {
	ring, err := openKeyring(keyringConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return New(ring), nil
}

func keyringConfig(opts Options) keyring.Config {
	cfg := keyring.Config{ServiceName: serviceName}

	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	switch backend {
	case BackendSystem:
		cfg.AllowedBackends = nativeBackends(keyring.AvailableBackends())
		return cfg
	case BackendFile:
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	// Auto mode falls through to the file backend when no native one exists.
	cfg.FileDir = opts.FileDir
	if cfg.FileDir == "" {
		cfg.FileDir = defaultFileDir()
	}
	cfg.FilePasswordFunc = filePassword
	return cfg
}

// nativeBackends drops the file backend from available. The result is never
// nil; an empty list makes keyring.Open fail instead of trying every backend.
func nativeBackends(available []keyring.BackendType) []keyring.BackendType {
	backends := []keyring.BackendType{}
	for _, b := range available {
		if b != keyring.FileBackend {
			backends = append(backends, b)
		}
	}
	return backends
}

func defaultFileDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, serviceName, "keyring")
	}
	return filepath.Join(".", "."+serviceName, "keyring")
}

func filePassword(prompt string) (string, error) {
	if password := os.Getenv(EnvKeyringPassword); password != "" {
		return password, nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("set %s to use the file keyring non-interactively", EnvKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

// Save stores the session, replacing any previous one.
func (s *Store) Save(session tmdb.Session) error {
	if !session.Valid() {
		return tmdb.ErrNoSession
	}

	data, err := json.Marshal(Record{Session: session, CreatedAt: s.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	err = s.ring.Set(keyring.Item{
		Key:         sessionKey,
		Data:        data,
		Label:       "favmovies TMDB session",
		Description: "TMDB session id",
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load returns the saved session. ErrNoSession is returned when nothing was
// saved.
func (s *Store) Load() (Record, error) {
	item, err := s.ring.Get(sessionKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Record{}, ErrNoSession
		}
		return Record{}, fmt.Errorf("failed to read session: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(item.Data, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode saved session: %w", err)
	}
	if !rec.Valid() {
		return Record{}, ErrNoSession
	}
	return rec, nil
}

// Clear removes the saved session. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if err := s.ring.Remove(sessionKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
