// Package versions persists Version rows. Versions are insert-only.
package versions

import (
	"context"

	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, version *models.NewVersion) (*models.Version, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Version, error)
}
