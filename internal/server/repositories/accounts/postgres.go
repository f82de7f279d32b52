package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ark/internal/dbx"
	"github.com/dmitrijs2005/ark/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB, *sql.Conn or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts the account or updates only the fields the caller set; a
// nil title or meta keeps the stored value. It relies on xmax being zero
// only for freshly inserted tuples.
func (r *PostgresRepository) Upsert(ctx context.Context, account *models.NewAccount) (*models.Account, bool, error) {
	if account.ID == nil {
		return nil, false, errors.New("account id is required")
	}

	query := `
		INSERT INTO account (id, title, meta)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET
			title = COALESCE(EXCLUDED.title, account.title),
			meta = COALESCE(EXCLUDED.meta, account.meta)
		RETURNING id, created, title, meta, (xmax = 0) AS inserted
	`

	result := &models.Account{}
	var inserted bool
	err := r.db.QueryRowContext(ctx, query, *account.ID, account.Title, account.Meta).
		Scan(&result.ID, &result.Created, &result.Title, &result.Meta, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("upsert account: %w", dbx.TranslateError(err))
	}

	return result, inserted, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT id, created, title, meta FROM account ORDER BY created, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select accounts: %w", dbx.TranslateError(err))
	}
	defer rows.Close()

	result := []*models.Account{}
	for rows.Next() {
		var item models.Account
		if err := rows.Scan(&item.ID, &item.Created, &item.Title, &item.Meta); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select accounts: %w", dbx.TranslateError(err))
	}

	return result, nil
}
