package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/geolex-tech/storefront-backend/pkg/auth/session"
)

// SessionAuthenticator checks the redis-backed session for the customer's
// token. When the session entry has vanished (expiry, redis flush) while
// the JWT itself is still valid, Reauthenticate restores the entry so an
// in-flight checkout is not lost; any outstanding refresh token for that
// session is invalidated in the process.
type SessionAuthenticator struct {
	sessions *session.Manager
}

func NewSessionAuthenticator(sessions *session.Manager) (*SessionAuthenticator, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &SessionAuthenticator{sessions: sessions}, nil
}

func (a *SessionAuthenticator) Ensure(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("missing session identifier")
	}
	ok, err := a.sessions.HasSession(ctx, accessID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no active session")
	}
	return nil
}

func (a *SessionAuthenticator) Reauthenticate(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("missing session identifier")
	}
	_, err := a.sessions.Generate(ctx, accessID)
	return err
}
