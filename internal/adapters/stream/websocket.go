package stream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/telkin/studio-bootstrap/internal/domain"
	"github.com/telkin/studio-bootstrap/internal/ports"
)

const readLimit = 1 << 20

// Dialer opens terminal channels over websocket. The zero value uses
// websocket.DefaultDialer.
type Dialer struct {
	WS     *websocket.Dialer
	Logger *slog.Logger
}

var _ ports.StreamDialer = (*Dialer)(nil)

func (d *Dialer) dialer() *websocket.Dialer {
	if d.WS != nil {
		return d.WS
	}
	return websocket.DefaultDialer
}

func (d *Dialer) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Dial connects to the terminal endpoint and wraps the connection in the
// frame codec. The caller owns the returned conn and must close it.
func (d *Dialer) Dial(ctx context.Context, url string, header http.Header) (ports.StreamConn, error) {
	ws, resp, err := d.dialer().DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: dial %s (status %s): %v: %s", domain.ErrTransport, url, resp.Status, err, body)
		}
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrTransport, url, err)
	}
	ws.SetReadLimit(readLimit)

	d.logger().Debug("terminal channel open", "url", url)
	return &conn{ws: ws}, nil
}

type conn struct {
	ws *websocket.Conn
}

func (c *conn) Read(ctx context.Context) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, fmt.Errorf("%w: read terminal frame: %v", domain.ErrTransport, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.ws.SetReadDeadline(deadline)
	}

	_, data, err := c.ws.ReadMessage()
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: read terminal frame: %v", domain.ErrTransport, err)
	}
	return domain.DecodeMessage(data)
}

func (c *conn) Send(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: send terminal frame: %v", domain.ErrTransport, err)
	}

	data, err := domain.EncodeMessage(msg)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.ws.SetWriteDeadline(deadline)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("%w: send terminal frame: %v", domain.ErrTransport, err)
	}
	return nil
}

func (c *conn) Close() error {
	return c.ws.Close()
}
