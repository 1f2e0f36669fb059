package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by stores when no session exists for an id,
// typically after expiry or logout.
var ErrNotFound = errors.New("session not found")

// Session is the per-request authentication context. It is loaded once by the
// session middleware, handed into the guard and token service, and persisted
// back only when a handler changes it. Nothing here is shared across
// concurrent sessions.
type Session struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	CSRFToken string `json:"csrf_token,omitempty"`
}

// New creates an anonymous session with a fresh id.
func New() *Session {
	return &Session{ID: uuid.New().String()}
}

// IsAuthenticated reports whether a user identity is bound to the session.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

// Store persists sessions server-side. The cookie only ever carries the
// signed session id.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}
