// Package session is the mock login gate in front of the booth. It mirrors
// the throwaway kiosk auth it replaces: a JSON token on disk, a base64
// "hash", no real security. The rest of the system asks one question only:
// is a session active.
package session

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Gate is the only view capture has of authentication.
type Gate interface {
	Active() bool
}

// Always reports an active session. It backs --no-gate.
type Always struct{}

func (Always) Active() bool { return true }

type token struct {
	Name      string    `json:"name"` // base64 of the visitor name
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps the session token in a file.
type Store struct {
	path string
}

// NewStore places the token under the user config directory.
func NewStore() (*Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to locate config directory")
	}
	return NewStoreAt(filepath.Join(dir, "myfotobooth", "session.json")), nil
}

// NewStoreAt keeps the token at an explicit path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Login starts a session for name, replacing any existing one.
func (s *Store) Login(name string) error {
	if name == "" {
		return errors.New("a name is required to log in")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}

	data, err := json.Marshal(token{
		Name:      base64.StdEncoding.EncodeToString([]byte(name)),
		CreatedAt: time.Now(),
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write session token")
	}
	return nil
}

// Logout ends the session. Logging out twice is fine.
func (s *Store) Logout() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove session token")
	}
	return nil
}

// Current returns the logged-in name, if any. A corrupt token reads as
// no session.
func (s *Store) Current() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	var t token
	if err := json.Unmarshal(data, &t); err != nil {
		return "", false
	}
	name, err := base64.StdEncoding.DecodeString(t.Name)
	if err != nil || len(name) == 0 {
		return "", false
	}
	return string(name), true
}

// Active reports whether a session exists.
func (s *Store) Active() bool {
	_, ok := s.Current()
	return ok
}
