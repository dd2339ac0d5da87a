package ports

import (
	"context"

	"github.com/telkin/studio-bootstrap/internal/domain"
)

// ScriptSource provides the command script to drive through the terminal.
type ScriptSource interface {
	Load(ctx context.Context) (domain.Script, error)
}
