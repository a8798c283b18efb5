// Package session owns the authenticated user state: the opaque
// backend token, the current user identity, and their persistence
// across invocations.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ingres-ai/hydrotalk/internal/api"
)

// User is the signed-in identity derived from authentication.
type User struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email"`
}

// Notifier receives outcome notifications for session operations, the
// terminal analogue of a toast. Implementations must not block.
type Notifier func(title, detail string)

// persisted is the on-disk session file shape.
type persisted struct {
	Token string `yaml:"token"`
	User  User   `yaml:"user"`
}

// Store holds the current session and persists it to a single file.
// A missing file means unauthenticated. All operations are safe for
// concurrent use.
type Store struct {
	path   string
	client *api.Client
	notify Notifier

	mu    sync.Mutex
	token string
	user  *User
}

// Load reads any persisted session from path and returns a store bound
// to the given backend client. An absent session file is not an error.
func Load(path string, client *api.Client, notify Notifier) (*Store, error) {
	if notify == nil {
		notify = func(string, string) {}
	}
	s := &Store{path: path, client: client, notify: notify}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var p persisted
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if p.Token != "" {
		s.token = p.Token
		user := p.User
		s.user = &user
		client.SetToken(p.Token)
	}

	return s, nil
}

// Login exchanges credentials for a token, persists it, and updates
// the current user. The backend rejecting the credentials surfaces as
// api.ErrBadCredentials.
func (s *Store) Login(ctx context.Context, email, password string) (*User, error) {
	token, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		s.notify("Login failed", "Please check your credentials and try again.")
		return nil, err
	}

	user := User{Email: email}
	if err := s.adopt(token, user); err != nil {
		return nil, err
	}

	s.notify("Welcome back!", "You've been successfully logged in.")
	return &user, nil
}

// Signup creates an account, persists its token, and updates the
// current user.
func (s *Store) Signup(ctx context.Context, name, email, password string) (*User, error) {
	token, err := s.client.SignUp(ctx, name, email, password)
	if err != nil {
		s.notify("Signup failed", "Something went wrong. Please try again.")
		return nil, err
	}

	user := User{Name: name, Email: email}
	if err := s.adopt(token, user); err != nil {
		return nil, err
	}

	s.notify("Account created!", "Welcome to INGRES AI. Let's get started!")
	return &user, nil
}

// Logout removes the persisted token and clears the in-memory state.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.client.SetToken("")

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}

	s.notify("Logged out", "You've been successfully logged out.")
	return nil
}

// Authenticated reports whether a user is currently signed in.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Token returns the current opaque token, empty when signed out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the current user, nil when signed out.
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// adopt installs the token and user, wires the client, and persists.
func (s *Store) adopt(token string, user User) error {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	s.client.SetToken(token)

	if err := s.save(token, user); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) save(token string, user User) error {
	data, err := yaml.Marshal(persisted{Token: token, User: user})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	// The token is a credential, keep the file owner-only.
	return os.WriteFile(s.path, data, 0o600)
}
