package files

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/ark/internal/dbx"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/google/uuid"
)

const columns = `account_id, version_id, filepath, filesize, created, mimetype, meta`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB, *sql.Conn or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.FileVersion, error) {
	var item models.FileVersion
	err := s.Scan(&item.AccountID, &item.VersionID, &item.Filepath, &item.Filesize, &item.Created, &item.Mimetype, &item.Meta)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a file version. A duplicate (account, path, version) or a
// dangling version id surfaces as common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, file *models.NewFileVersion) (*models.FileVersion, error) {
	query := `
		INSERT INTO file_version (account_id, version_id, filepath, filesize, mimetype, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + columns

	row := r.db.QueryRowContext(ctx, query,
		file.AccountID, file.VersionID, file.Filepath, file.Filesize, file.Mimetype, file.Meta)
	result, err := scanFile(row)
	if err != nil {
		return nil, fmt.Errorf("insert file version: %w", dbx.TranslateError(err))
	}
	return result, nil
}

// Get returns the row for an exact (account, path, version).
func (r *PostgresRepository) Get(ctx context.Context, accountID uuid.UUID, filepath string, versionID uuid.UUID) (*models.FileVersion, error) {
	query := `SELECT ` + columns + ` FROM file_version
		WHERE account_id = $1 AND filepath = $2 AND version_id = $3`

	result, err := scanFile(r.db.QueryRowContext(ctx, query, accountID, filepath, versionID))
	if err != nil {
		return nil, fmt.Errorf("select file version: %w", dbx.TranslateError(err))
	}
	return result, nil
}

func (r *PostgresRepository) Latest(ctx context.Context, accountID uuid.UUID, filepath string) (*models.FileVersion, error) {
	query := `SELECT ` + columns + ` FROM file_version
		WHERE account_id = $1 AND filepath = $2
		ORDER BY version_id DESC
		LIMIT 1`

	result, err := scanFile(r.db.QueryRowContext(ctx, query, accountID, filepath))
	if err != nil {
		return nil, fmt.Errorf("select latest file version: %w", dbx.TranslateError(err))
	}
	return result, nil
}

func (r *PostgresRepository) History(ctx context.Context, accountID uuid.UUID, filepath string) ([]models.FileVersion, error) {
	query := `SELECT ` + columns + ` FROM file_version
		WHERE account_id = $1 AND filepath = $2
		ORDER BY version_id`

	return r.selectMany(ctx, "select file history", query, accountID, filepath)
}

// Current picks the greatest version id per path. PostgreSQL has no max()
// over uuid, so the per-path maximum is taken with DISTINCT ON inside the
// CTE and joined back on the full key.
func (r *PostgresRepository) Current(ctx context.Context, accountID uuid.UUID) ([]models.FileVersion, error) {
	query := `
		WITH latest AS (
			SELECT DISTINCT ON (filepath) filepath, version_id
			FROM file_version
			WHERE account_id = $1
			ORDER BY filepath, version_id DESC
		)
		SELECT fv.account_id, fv.version_id, fv.filepath, fv.filesize, fv.created, fv.mimetype, fv.meta
		FROM file_version fv
		JOIN latest ON fv.filepath = latest.filepath AND fv.version_id = latest.version_id
		WHERE fv.account_id = $1
		ORDER BY fv.filepath`

	return r.selectMany(ctx, "select current files", query, accountID)
}

func (r *PostgresRepository) ListByVersion(ctx context.Context, versionID uuid.UUID) ([]models.FileVersion, error) {
	query := `SELECT ` + columns + ` FROM file_version
		WHERE version_id = $1
		ORDER BY filepath`

	return r.selectMany(ctx, "select version files", query, versionID)
}

func (r *PostgresRepository) selectMany(ctx context.Context, op, query string, args ...any) ([]models.FileVersion, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, dbx.TranslateError(err))
	}
	defer rows.Close()

	return collect(op, rows)
}

func collect(op string, rows *sql.Rows) ([]models.FileVersion, error) {
	result := []models.FileVersion{}
	for rows.Next() {
		item, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, dbx.TranslateError(err))
	}
	return result, nil
}
