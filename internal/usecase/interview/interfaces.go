package interview

import (
	"context"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

type ModelGateway interface {
	StreamCompletion(ctx context.Context, system string, turns []entity.Turn) (entity.CompletionStream, error)
}

// Delivery relays interview events and rendered documents to an external
// sink (webhook or Telegram). All delivery is best-effort from the
// interview's point of view.
type Delivery interface {
	SendMessage(ctx context.Context, content string) error
	SendFile(ctx context.Context, filename string, data []byte, content string) error
}
