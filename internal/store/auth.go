package store

import (
	"context"
	"sync"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/apperr"
	"github.com/meropasal/pasal-cli/internal/state"
)

// RegisterInput is the merchant signup payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthStore drives the merchant session: signup, OTP verification, login,
// and the owner ID that scopes shop fetches. Credentials ride the session
// profile; the server keeps the session in cookies.
type AuthStore struct {
	mu    sync.Mutex
	api   *api.Client
	store *Store

	status        state.Status
	err           *apperr.Error
	authenticated bool
	ownerID       string
	email         string
}

func newAuthStore(client *api.Client, store *Store) *AuthStore {
	return &AuthStore{api: client, store: store}
}

func (s *AuthStore) Status() state.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *AuthStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Authenticated reports whether a merchant session is live.
func (s *AuthStore) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// OwnerID returns the merchant's owner ID, "" before login resolves.
func (s *AuthStore) OwnerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerID
}

// Register starts merchant signup. Field validation failures come back as
// one flattened message.
func (s *AuthStore) Register(ctx context.Context, input RegisterInput) error {
	s.begin()
	_, err := s.api.Session().Post(ctx, "/auth/register", input)
	if err != nil {
		return s.fail(err, "Registration failed")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.email = input.Email
	s.mu.Unlock()
	return nil
}

// VerifyOTP confirms the signup code and resolves the owner ID.
func (s *AuthStore) VerifyOTP(ctx context.Context, email, otp string) error {
	s.begin()
	_, err := s.api.Session().Post(ctx, "/auth/verify-otp",
		map[string]string{"email": email, "otp": otp})
	if err != nil {
		return s.fail(err, "OTP verification failed")
	}

	s.mu.Lock()
	s.status = state.Succeeded
	s.authenticated = true
	s.email = email
	s.mu.Unlock()

	_, err = s.FetchOwnerID(ctx)
	return err
}

// FetchOwnerID resolves the owner ID for the session, skipping the call
// when it is already known.
func (s *AuthStore) FetchOwnerID(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.ownerID != "" {
		id := s.ownerID
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	resp, err := s.api.Session().Get(ctx, "/auth/getOwnerId")
	if err != nil {
		return "", apperr.Fallback(err, "Failed to resolve owner")
	}

	var payload struct {
		OwnerID string `json:"ownerId"`
	}
	if err := resp.UnmarshalData(&payload); err != nil || payload.OwnerID == "" {
		return "", apperr.ErrAPI(resp.StatusCode, "Failed to resolve owner")
	}

	s.mu.Lock()
	s.ownerID = payload.OwnerID
	s.mu.Unlock()
	return payload.OwnerID, nil
}

// Login opens a merchant session.
func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	s.begin()
	resp, err := s.api.Session().Post(ctx, "/auth/login",
		map[string]string{"email": email, "password": password})
	if err != nil {
		return s.fail(err, "Login failed")
	}

	var payload struct {
		OwnerID string `json:"ownerId"`
	}
	_ = resp.UnmarshalData(&payload)

	s.mu.Lock()
	s.status = state.Succeeded
	s.authenticated = true
	s.email = email
	if payload.OwnerID != "" {
		s.ownerID = payload.OwnerID
	}
	s.mu.Unlock()

	if payload.OwnerID == "" {
		_, err = s.FetchOwnerID(ctx)
		return err
	}
	return nil
}

// Logout closes the session and resets every merchant container. Local
// state resets even when the server call fails; a dead session is not
// worth keeping state for.
func (s *AuthStore) Logout(ctx context.Context) error {
	_, err := s.api.Session().Post(ctx, "/auth/logout", nil)
	s.store.ResetSession()
	if err != nil {
		return apperr.Fallback(err, "Logout failed")
	}
	return nil
}

// CheckAuth probes the session. A 401 is an answer, not an error.
func (s *AuthStore) CheckAuth(ctx context.Context) (bool, error) {
	_, err := s.api.Session().Get(ctx, "/auth/check-auth")
	if err != nil {
		e := apperr.As(err)
		if e.Kind == apperr.KindAuth {
			s.mu.Lock()
			s.authenticated = false
			s.mu.Unlock()
			return false, nil
		}
		return false, apperr.Fallback(err, "Failed to check session")
	}

	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()
	return true, nil
}

func (s *AuthStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = state.Idle
	s.err = nil
	s.authenticated = false
	s.ownerID = ""
	s.email = ""
}

func (s *AuthStore) begin() {
	s.mu.Lock()
	s.status = state.Loading
	s.err = nil
	s.mu.Unlock()
}

func (s *AuthStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.status = state.Failed
	s.err = e
	s.mu.Unlock()
	return e
}
