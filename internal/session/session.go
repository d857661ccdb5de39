// Package session holds the signed-in user's state for the lifetime of the
// process and mirrors it to a JSON file so later invocations start signed in.
//
// The [Store] is safe for concurrent use. Clearing the credential (an empty
// token) wipes every field and the mirror file, so stale identity can never
// outlive the credential it belonged to. Components interested in auth
// transitions register a callback with [Store.Subscribe].
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// EventKind identifies an auth state transition.
type EventKind int

const (
	SignedIn EventKind = iota
	SignedOut
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed in"
	case SignedOut:
		return "signed out"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers when the credential appears or goes away.
type Event struct {
	Kind        EventKind
	LocalUserID string
}

// state is the serializable snapshot mirrored to disk.
type state struct {
	Credential     string `json:"credential"`
	RefreshToken   string `json:"refresh_token,omitempty"`
	LocalUserID    string `json:"local_user_id"`
	ExternalUserID string `json:"external_user_id,omitempty"`
	DisplayName    string `json:"display_name,omitempty"`
	LastPlaylistID string `json:"last_playlist_id,omitempty"`
}

// Store is the in-process session. The zero value is unusable; construct
// with [NewStore].
type Store struct {
	mu          sync.Mutex
	path        string
	current     state
	subscribers []func(Event)
}

// NewStore creates a store mirrored at path. Pass an empty path to keep the
// session in memory only.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load restores the session from the mirror file. A missing file is not an
// error, the store just starts signed out.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var loaded state
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	if loaded.Credential == "" {
		// a mirror without a credential is as good as no mirror
		loaded = state{}
	}

	s.current = loaded
	return nil
}

// SignIn installs a credential and the identity that came with it, then
// notifies subscribers. An empty credential is treated as a sign-out.
func (s *Store) SignIn(credential, refreshToken, localUserID, displayName string) error {
	if credential == "" {
		return s.SignOut()
	}

	s.mu.Lock()
	s.current.Credential = credential
	s.current.RefreshToken = refreshToken
	s.current.LocalUserID = localUserID
	s.current.DisplayName = displayName
	err := s.mirrorLocked()
	subs, event := s.snapshotSubscribersLocked(Event{Kind: SignedIn, LocalUserID: localUserID})
	s.mu.Unlock()

	notify(subs, event)
	return err
}

// SignOut clears every field and removes the mirror file.
func (s *Store) SignOut() error {
	s.mu.Lock()
	wasSignedIn := s.current.Credential != ""
	localUserID := s.current.LocalUserID
	s.current = state{}

	var err error
	if s.path != "" {
		if removeErr := os.Remove(s.path); removeErr != nil && !os.IsNotExist(removeErr) {
			err = fmt.Errorf("failed to remove session file: %w", removeErr)
		}
	}

	var subs []func(Event)
	var event Event
	if wasSignedIn {
		subs, event = s.snapshotSubscribersLocked(Event{Kind: SignedOut, LocalUserID: localUserID})
	}
	s.mu.Unlock()

	notify(subs, event)
	return err
}

// SetExternalIdentity records the streaming provider's user ID and display
// name after the provider profile has been fetched.
func (s *Store) SetExternalIdentity(externalUserID, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.ExternalUserID = externalUserID
	if displayName != "" {
		s.current.DisplayName = displayName
	}
	return s.mirrorLocked()
}

// SetLastPlaylist records the most recently published playlist.
func (s *Store) SetLastPlaylist(playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.LastPlaylistID = playlistID
	return s.mirrorLocked()
}

// Subscribe registers a callback for sign-in and sign-out transitions.
// Callbacks run synchronously on the goroutine that caused the transition.
func (s *Store) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// SignedIn reports whether a credential is held.
func (s *Store) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Credential != ""
}

// Credential returns the held access token, empty when signed out.
func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Credential
}

// RefreshToken returns the held refresh token.
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.RefreshToken
}

// LocalUserID returns the identity provider's user ID.
func (s *Store) LocalUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.LocalUserID
}

// ExternalUserID returns the streaming provider's user ID.
func (s *Store) ExternalUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.ExternalUserID
}

// DisplayName returns the user's display name.
func (s *Store) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.DisplayName
}

// LastPlaylistID returns the most recently published playlist's ID.
func (s *Store) LastPlaylistID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.LastPlaylistID
}

// mirrorLocked writes the current state to the mirror file. Caller holds mu.
func (s *Store) mirrorLocked() error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// snapshotSubscribersLocked copies the subscriber list so callbacks run
// outside the lock. Caller holds mu.
func (s *Store) snapshotSubscribersLocked(event Event) ([]func(Event), Event) {
	subs := make([]func(Event), len(s.subscribers))
	copy(subs, s.subscribers)
	return subs, event
}

func notify(subs []func(Event), event Event) {
	for _, fn := range subs {
		fn(event)
	}
}
