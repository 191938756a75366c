// Package identity supplies the current principal: every task store and
// timer operation is scoped to it. The provider is an opaque async source so
// the core does not care whether the session comes from config, a token
// exchange, or a test double.
package identity

import (
	"context"
	"errors"
)

// ErrNoSession is returned when no principal is signed in.
var ErrNoSession = errors.New("no active session")

// Session identifies the signed-in principal.
type Session struct {
	PrincipalID string
	DisplayName string
	Email       string
}

// Provider yields the current session.
type Provider interface {
	Session(ctx context.Context) (*Session, error)
}

// Static is a provider with a fixed session, used by the CLI where the
// principal comes from configuration.
type Static struct {
	session Session
}

// NewStatic creates a provider for the given principal.
func NewStatic(principalID, displayName, email string) *Static {
	return &Static{session: Session{
		PrincipalID: principalID,
		DisplayName: displayName,
		Email:       email,
	}}
}

// Session returns the fixed session, or ErrNoSession when the principal id
// is empty.
func (s *Static) Session(ctx context.Context) (*Session, error) {
	if s.session.PrincipalID == "" {
		return nil, ErrNoSession
	}
	sess := s.session
	return &sess, nil
}
