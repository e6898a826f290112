// Package session is the single source of truth for "is there a logged-in
// admin, and who". The token and admin profile live in memory and in exactly
// two durable entries under the state directory, written together and
// removed together. The store implements api.TokenSource so every outbound
// request reads the current credential at send time instead of going through
// a process-wide default header.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/votoinformado/votoadmin/internal/api"
	"github.com/votoinformado/votoadmin/internal/logbook"
)

const (
	tokenEntry   = "token"
	profileEntry = "profile.json"
)

// Authenticator performs the credential exchange. *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.LoginResponse, error)
}

// Store holds the authentication token and current admin profile.
type Store struct {
	dir  string
	log  *logbook.Logbook
	auth Authenticator

	mu      sync.RWMutex
	token   string
	admin   api.AdminProfile
	hasUser bool
	loading bool
}

// Option customizes store construction.
type Option func(*Store)

// WithLogbook routes login/logout activity to the given logbook.
func WithLogbook(lb *logbook.Logbook) Option {
	return func(s *Store) { s.log = lb }
}

// New creates a store backed by the given state directory. The store starts
// in the loading state until Initialize runs.
func New(stateDir string, opts ...Option) *Store {
	s := &Store{dir: stateDir, loading: true}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Bind installs the authenticator used by Login. Kept separate from New
// because the API client itself needs the store as its token source.
func (s *Store) Bind(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Initialize restores the session from durable storage. Both entries must be
// present and readable for the session to count as authenticated; no network
// round-trip validates the token. Once it returns, Loading reports false.
func (s *Store) Initialize() {
	token, admin, ok := s.readEntries()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !ok {
		return
	}
	s.token = token
	s.admin = admin
	s.hasUser = true
}

// Loading reports whether the startup restore has not finished yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAuthenticated reports whether a non-empty token is held. A stale token
// still counts until a request fails; there is no expiry detection.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Admin returns the current profile; ok is false when unauthenticated.
func (s *Store) Admin() (api.AdminProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin, s.hasUser
}

// Login exchanges credentials with the backend. On success the token and
// profile are persisted and held in memory, and true is returned. Every
// failure mode (bad credentials, unreachable server, malformed response)
// collapses to false; the cause is only logged.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		s.log.Error("login attempted without a bound authenticator")
		return false
	}
	resp, err := auth.Login(ctx, email, password)
	if err != nil {
		s.log.Warn("login failed for %s: %v", email, err)
		return false
	}
	if strings.TrimSpace(resp.Token) == "" {
		s.log.Warn("login response carried no token for %s", email)
		return false
	}
	if err := s.writeEntries(resp.Token, resp.Admin); err != nil {
		s.log.Error("persist session: %v", err)
		return false
	}
	s.mu.Lock()
	s.token = resp.Token
	s.admin = resp.Admin
	s.hasUser = true
	s.mu.Unlock()
	s.log.Info("session opened for %s (%s)", resp.Admin.Email, resp.Admin.Rol)
	return true
}

// Logout clears durable storage and in-memory state. Idempotent.
func (s *Store) Logout() {
	for _, name := range []string{tokenEntry, profileEntry} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("remove session entry %s: %v", name, err)
		}
	}
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.admin = api.AdminProfile{}
	s.hasUser = false
	s.mu.Unlock()
	if wasAuthenticated {
		s.log.Info("session closed")
	}
}

func (s *Store) readEntries() (string, api.AdminProfile, bool) {
	tokenData, err := os.ReadFile(filepath.Join(s.dir, tokenEntry))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("read stored token: %v", err)
		}
		return "", api.AdminProfile{}, false
	}
	token := strings.TrimSpace(string(tokenData))
	if token == "" {
		return "", api.AdminProfile{}, false
	}
	profileData, err := os.ReadFile(filepath.Join(s.dir, profileEntry))
	if err != nil {
		// Half a session is no session; both entries travel together.
		s.log.Warn("stored token without profile, ignoring stale session")
		return "", api.AdminProfile{}, false
	}
	var admin api.AdminProfile
	if err := json.Unmarshal(profileData, &admin); err != nil {
		s.log.Warn("decode stored profile: %v", err)
		return "", api.AdminProfile{}, false
	}
	return token, admin, true
}

func (s *Store) writeEntries(token string, admin api.AdminProfile) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	profileData, err := json.Marshal(admin)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenEntry), []byte(token), 0o600); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, profileEntry), profileData, 0o600)
}
