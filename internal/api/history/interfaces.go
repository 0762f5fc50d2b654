package history

import (
	"context"

	"github.com/HIMASAKTA-DEV/project-wizard/internal/entity"
)

type HistoryUsecase interface {
	History(ctx context.Context) ([]entity.HistoryEntry, error)
	HistoryEntry(ctx context.Context, id string) (*entity.HistoryEntry, error)
}
