// Package files persists FileVersion rows. A row is written once, in the
// same transaction as its Version and after its blob reached the object
// store.
package files

import (
	"context"

	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, file *models.NewFileVersion) (*models.FileVersion, error)
	Get(ctx context.Context, accountID uuid.UUID, filepath string, versionID uuid.UUID) (*models.FileVersion, error)
	// Latest returns the row with the greatest version id for the path.
	Latest(ctx context.Context, accountID uuid.UUID, filepath string) (*models.FileVersion, error)
	// History returns every row for the path ordered by version id. It
	// returns an empty slice, not an error, when there are none.
	History(ctx context.Context, accountID uuid.UUID, filepath string) ([]models.FileVersion, error)
	// Current returns one row per path of the account, the latest one,
	// ordered by path.
	Current(ctx context.Context, accountID uuid.UUID) ([]models.FileVersion, error)
	ListByVersion(ctx context.Context, versionID uuid.UUID) ([]models.FileVersion, error)
}
