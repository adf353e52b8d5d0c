package storage

import (
	"context"

	"github.com/tb0hdan/fmg-script-history/pkg/models"
)

type Storage interface {
	// Collection run audit operations
	CreateCollectionRun(ctx context.Context, run *models.CollectionRun) error
	GetCollectionRun(ctx context.Context, id uint) (*models.CollectionRun, error)
	GetCollectionRuns(ctx context.Context, limit, offset int) ([]models.CollectionRun, int64, error)
	GetCollectionRunsByScript(ctx context.Context, script string, limit int) ([]models.CollectionRun, error)
	DeleteCollectionRun(ctx context.Context, id uint) error
	DeleteAllCollectionRuns(ctx context.Context) error

	// Lifecycle
	Close() error
}
