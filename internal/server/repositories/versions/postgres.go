package versions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ark/internal/dbx"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a version with the caller-assigned id; created is set by
// the database. An unknown account surfaces as common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, version *models.NewVersion) (*models.Version, error) {
	query := `
		INSERT INTO version (id, account_id, meta)
		VALUES ($1, $2, $3)
		RETURNING id, account_id, created, meta
	`

	result := &models.Version{}
	err := r.db.QueryRowContext(ctx, query, version.ID, version.AccountID, version.Meta).
		Scan(&result.ID, &result.AccountID, &result.Created, &result.Meta)
	if err != nil {
		return nil, fmt.Errorf("insert version: %w", dbx.TranslateError(err))
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*models.Version, error) {
	query := `SELECT id, account_id, created, meta FROM version WHERE id = $1`

	result := &models.Version{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&result.ID, &result.AccountID, &result.Created, &result.Meta)
	if err != nil {
		return nil, fmt.Errorf("select version %s: %w", id, dbx.TranslateError(err))
	}

	return result, nil
}
