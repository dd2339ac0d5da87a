package domain

import "errors"

// Category errors for the run pipeline. Specific failures wrap one of these
// so callers can classify with errors.Is without matching message text.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrAuth          = errors.New("authentication error")
	ErrUnavailable   = errors.New("application unavailable")
	ErrProtocol      = errors.New("protocol error")
	ErrTransport     = errors.New("transport error")
)
