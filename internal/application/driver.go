package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/telkin/studio-bootstrap/internal/domain"
	"github.com/telkin/studio-bootstrap/internal/ports"
)

// Driver runs a command script through a terminal's duplex channel. It
// waits for the remote shell's setup frame, then feeds commands one at a
// time, advancing only when stdout shows an idle prompt again.
type Driver struct {
	Dialer ports.StreamDialer
	Logger *slog.Logger
	// CommandTimeout bounds the wait for each command's prompt; zero
	// means wait forever.
	CommandTimeout time.Duration
}

func NewDriver(dialer ports.StreamDialer, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{Dialer: dialer, Logger: logger}
}

// Run opens the channel, performs the setup handshake and drives the
// script to completion. The channel is closed on every exit path.
func (d *Driver) Run(ctx context.Context, url string, header http.Header, script domain.Script) error {
	conn, err := d.Dialer.Dial(ctx, url, header)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := d.awaitSetup(ctx, conn); err != nil {
		return err
	}

	for i, command := range script.Commands {
		d.Logger.Info("sending command", "index", i+1, "total", len(script.Commands), "command", command)
		if err := d.runCommand(ctx, conn, script, command); err != nil {
			return fmt.Errorf("command %d of %d (%q): %w", i+1, len(script.Commands), command, err)
		}
	}

	d.Logger.Info("script complete", "commands", len(script.Commands))
	return nil
}

// awaitSetup consumes frames until the shell announces it is attached.
// Anything arriving before the setup frame is skipped.
func (d *Driver) awaitSetup(ctx context.Context, conn ports.StreamConn) error {
	for {
		msg, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("awaiting setup: %w", err)
		}
		if msg.Stream == domain.StreamSetup {
			d.Logger.Debug("shell attached")
			return nil
		}
		d.Logger.Debug("skipping pre-setup frame", "stream", string(msg.Stream))
	}
}

func (d *Driver) runCommand(ctx context.Context, conn ports.StreamConn, script domain.Script, command string) error {
	cmdCtx := ctx
	if d.CommandTimeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, d.CommandTimeout)
		defer cancel()
	}

	if err := conn.Send(cmdCtx, domain.StdinMessage(command)); err != nil {
		return err
	}

	// Echoed stdin comes back on stdout, so there is nothing extra to
	// print; every frame is logged as-is until the prompt reappears.
	for {
		msg, err := conn.Read(cmdCtx)
		if err != nil {
			return err
		}
		d.Logger.Info("terminal output", "stream", string(msg.Stream), "payload", msg.Payload)

		if msg.Stream == domain.StreamStdout && script.PromptReady(msg.Payload) {
			return nil
		}
	}
}
