// Package client provides a Go client for The Reporter API. It mirrors the
// browser client's behavior: a persisted session token attached to every
// request, cleared the moment the server answers 401.
package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/bojo500/the-reporter/internal/models"
)

// Session is the persisted login state: the bearer token plus the user
// echoed back at login.
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// ErrNoSession is returned when an operation needs a session and none is
// stored.
var ErrNoSession = errors.New("not logged in")

// SessionStore persists the session as a JSON file.
type SessionStore struct {
	path string
}

// NewSessionStore returns a store writing to path. An empty path uses the
// default location under the user config dir.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "the-reporter", "session.json")
	}
	return &SessionStore{path: path}, nil
}

// Load reads the stored session. Returns ErrNoSession when none exists.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

// Save writes the session, creating the parent directory as needed.
func (s *SessionStore) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the stored session. Clearing an absent session is a no-op.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
