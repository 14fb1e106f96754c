// Package session tracks who is signed in to the admin shell and hands
// the access token to the REST client.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/client"

	"go.uber.org/zap"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// View selects which form is shown; switching it never touches the network
type View int

const (
	ViewLogin View = iota
	ViewRegister
)

func (v View) String() string {
	if v == ViewRegister {
		return "register"
	}
	return "login"
}

// Fallback messages when the server gave none
const (
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
	MsgTransportError     = "Login error"
)

var (
	// ErrSubmitting is returned when a second submit starts before the first ended
	ErrSubmitting = errors.New("a request is already in flight")

	// ErrNoRefreshToken is returned by Refresh when there is nothing to refresh with
	ErrNoRefreshToken = errors.New("no refresh token")
)

// Poster is the part of the REST client the session needs
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

// FailedError carries the message shown to the user after a failed submit
type FailedError struct {
	Message string
	Fields  []api.ValidationError
	Err     error
}

func (e *FailedError) Error() string { return e.Message }

func (e *FailedError) Unwrap() error { return e.Err }

type Session struct {
	client Poster
	store  Store
	logger *zap.Logger

	mu       sync.Mutex
	state    State
	view     View
	message  string
	identity *Identity
}

func New(c Poster, store Store, logger *zap.Logger) *Session {
	if store == nil {
		store = &MemoryStore{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{client: c, store: store, logger: logger}
}

// Login posts credentials and persists the identity on success
func (s *Session) Login(ctx context.Context, req api.LoginRequest) (*Identity, error) {
	return s.submit(ctx, api.PathLogin, req, MsgLoginFailed)
}

// Register creates an account and signs in with it
func (s *Session) Register(ctx context.Context, req api.RegisterRequest) (*Identity, error) {
	return s.submit(ctx, api.PathRegister, req, MsgRegistrationFailed)
}

func (s *Session) submit(ctx context.Context, path string, body any, fallback string) (*Identity, error) {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return nil, ErrSubmitting
	}
	s.state = StateSubmitting
	s.message = ""
	s.mu.Unlock()

	var resp api.AuthResponse
	err := s.client.Post(ctx, path, body, &resp)
	if err == nil && (!resp.Success || resp.AccessToken == "") {
		err = &client.APIError{Message: resp.Message}
	}
	if err != nil {
		return nil, s.fail(err, fallback)
	}

	id := &Identity{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if resp.User != nil {
		id.User = *resp.User
	}

	if err := s.store.Save(id); err != nil {
		return nil, s.fail(fmt.Errorf("persist session: %w", err), fallback)
	}

	s.mu.Lock()
	s.identity = id
	s.state = StateAuthenticated
	s.message = resp.Message
	s.mu.Unlock()

	s.logger.Info("signed in", zap.String("email", id.User.Email), zap.String("path", path))
	return id, nil
}

func (s *Session) fail(err error, fallback string) error {
	message := client.MessageOf(err, fallback)
	if errors.Is(err, client.ErrTransport) {
		message = MsgTransportError
	}

	failed := &FailedError{Message: message, Err: err}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		failed.Fields = apiErr.Fields
	}

	s.mu.Lock()
	s.state = StateFailed
	s.message = message
	s.mu.Unlock()

	s.logger.Warn("authentication failed", zap.String("message", message), zap.Error(err))
	return failed
}

// Restore picks up an identity persisted by an earlier run
func (s *Session) Restore(ctx context.Context) (*Identity, error) {
	id, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.identity = id
	s.state = StateAuthenticated
	s.mu.Unlock()
	return id, nil
}

// Refresh trades the refresh token for a new access token and persists the
// updated identity
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	id := s.identity
	s.mu.Unlock()

	if id == nil || id.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	var resp api.RefreshResponse
	err := s.client.Post(ctx, api.PathRefresh, api.RefreshRequest{RefreshToken: id.RefreshToken}, &resp)
	if err != nil {
		return fmt.Errorf("refresh access token: %w", err)
	}
	if resp.AccessToken == "" {
		return errors.New("refresh returned no access token")
	}

	updated := *id
	updated.AccessToken = resp.AccessToken
	if err := s.store.Save(&updated); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.identity = &updated
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.logger.Debug("access token refreshed", zap.String("email", updated.User.Email))
	return nil
}

// Logout revokes the refresh token on the server, best effort, and then
// forgets the identity locally
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	id := s.identity
	s.mu.Unlock()

	if id != nil && id.RefreshToken != "" {
		err := s.client.Post(ctx, api.PathLogout, api.RefreshRequest{RefreshToken: id.RefreshToken}, nil)
		if err != nil {
			s.logger.Warn("server logout failed", zap.Error(err))
		}
	}

	return s.Invalidate()
}

// Invalidate clears the identity here and in the store
func (s *Session) Invalidate() error {
	s.mu.Lock()
	s.identity = nil
	s.state = StateIdle
	s.message = ""
	s.mu.Unlock()

	return s.store.Clear()
}

// Token implements client.TokenSource
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return ""
	}
	return s.identity.AccessToken
}

func (s *Session) Identity() (*Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return nil, false
	}
	copied := *s.identity
	return &copied, true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Message is the last success or failure message
func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// ToggleView flips between the login and register forms
func (s *Session) ToggleView() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view == ViewLogin {
		s.view = ViewRegister
	} else {
		s.view = ViewLogin
	}
	return s.view
}
