package ports

import (
	"context"
	"net/http"

	"github.com/telkin/studio-bootstrap/internal/domain"
)

// StreamConn is a duplex, message-framed channel to one remote terminal.
// Read blocks until a frame arrives or the channel fails. Close must be
// safe to call exactly once on every exit path.
type StreamConn interface {
	Read(ctx context.Context) (domain.Message, error)
	Send(ctx context.Context, msg domain.Message) error
	Close() error
}

// StreamDialer opens the duplex channel for a terminal endpoint,
// authenticating with whatever headers the caller supplies.
type StreamDialer interface {
	Dial(ctx context.Context, url string, header http.Header) (StreamConn, error)
}
