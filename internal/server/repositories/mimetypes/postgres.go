package mimetypes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ark/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Lookup(ctx context.Context, ext string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM ext_mimetype WHERE ext = $1`, ext).Scan(&name)
	if err != nil {
		return "", fmt.Errorf("lookup mimetype for %q: %w", ext, dbx.TranslateError(err))
	}
	return name, nil
}
