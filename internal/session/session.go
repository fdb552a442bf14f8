// Package session manages the session store at ~/.gmux/sessions.json.
//
// A session is a named, ordered group of repository paths operated on
// together. The store also remembers which session is current. The store
// is read once at startup and written back atomically; it is never
// mutated during fan-out.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Session is a named, ordered set of repository paths.
// Insertion order is preserved for listing.
type Session struct {
	Name  string   `json:"name"`
	Repos []string `json:"repos"`
}

// Store holds all sessions and the current-session pointer.
type Store struct {
	Current  string    `json:"current,omitempty"`
	Sessions []Session `json:"sessions"`
}

// gmuxDir returns the path to ~/.gmux/, creating it if needed.
// GMUX_DIR overrides the location (used by tests).
func gmuxDir() (string, error) {
	if dir := os.Getenv("GMUX_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(home, ".gmux")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create ~/.gmux directory: %w", err)
	}
	return dir, nil
}

// storePath returns the path to ~/.gmux/sessions.json
func storePath() (string, error) {
	dir, err := gmuxDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions.json"), nil
}

// Load reads the store from ~/.gmux/sessions.json.
// Returns an empty store if the file doesn't exist.
func Load() (*Store, error) {
	path, err := storePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Store{}, nil
		}
		return nil, fmt.Errorf("read sessions: %w", err)
	}

	var s Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse sessions: %w", err)
	}
	return &s, nil
}

// Save writes the store to ~/.gmux/sessions.json atomically.
func (s *Store) Save() error {
	path, err := storePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sessions: %w", err)
	}

	// Write to temp file first for atomic operation
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write sessions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save sessions: %w", err)
	}
	return nil
}

// Names returns all session names in store order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.Sessions))
	for _, sess := range s.Sessions {
		names = append(names, sess.Name)
	}
	return names
}

// Get looks up a session by name.
func (s *Store) Get(name string) (*Session, error) {
	for i := range s.Sessions {
		if s.Sessions[i].Name == name {
			return &s.Sessions[i], nil
		}
	}
	return nil, fmt.Errorf("session not found: %s", name)
}

// Ensure returns the named session, creating it if missing.
func (s *Store) Ensure(name string) *Session {
	if sess, err := s.Get(name); err == nil {
		return sess
	}
	s.Sessions = append(s.Sessions, Session{Name: name})
	return &s.Sessions[len(s.Sessions)-1]
}

// Use marks an existing session as current.
func (s *Store) Use(name string) error {
	if _, err := s.Get(name); err != nil {
		return err
	}
	s.Current = name
	return nil
}

// Rename renames a session. The current pointer follows.
func (s *Store) Rename(oldName, newName string) error {
	if _, err := s.Get(newName); err == nil {
		return fmt.Errorf("session already exists: %s", newName)
	}
	sess, err := s.Get(oldName)
	if err != nil {
		return err
	}
	sess.Name = newName
	if s.Current == oldName {
		s.Current = newName
	}
	return nil
}

// Delete removes a session. Deleting the current session clears the pointer.
func (s *Store) Delete(name string) error {
	for i := range s.Sessions {
		if s.Sessions[i].Name == name {
			s.Sessions = slices.Delete(s.Sessions, i, i+1)
			if s.Current == name {
				s.Current = ""
			}
			return nil
		}
	}
	return fmt.Errorf("session not found: %s", name)
}

// AddRepo records a repo path in the session. Returns an error if the path
// is already present. Paths are normalized to absolute by the caller.
func (sess *Session) AddRepo(path string) error {
	if slices.Contains(sess.Repos, path) {
		return fmt.Errorf("repo already in session: %s", path)
	}
	sess.Repos = append(sess.Repos, path)
	return nil
}

// RemoveRepo removes a repo by full path or base name.
func (sess *Session) RemoveRepo(ref string) error {
	for i, repo := range sess.Repos {
		if repo == ref || filepath.Base(repo) == ref {
			sess.Repos = slices.Delete(sess.Repos, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("repo not found in session: %s", ref)
}
