package ports

import (
	"context"

	"github.com/telkin/studio-bootstrap/internal/domain"
)

// AppServer is the Studio application server's cookie-authenticated HTTP
// surface: presigned login, app readiness, terminal creation, and the
// handshake material for the terminal channel.
type AppServer interface {
	Login(ctx context.Context, presignedURL string) (domain.Session, error)
	XSRFToken(session domain.Session) (string, bool)
	AwaitReady(ctx context.Context, session domain.Session) error
	OpenTerminal(ctx context.Context, session domain.Session) (domain.Terminal, error)
	WebsocketURL(session domain.Session, terminal domain.Terminal) string
	CookieHeader(session domain.Session) string
}
