// Package accounts persists Account rows.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/ark/internal/server/models"
)

type Repository interface {
	// Upsert inserts the account or, when the id exists, replaces its title
	// and meta. created reports whether a new row was inserted.
	Upsert(ctx context.Context, account *models.NewAccount) (acc *models.Account, created bool, err error)
	List(ctx context.Context) ([]*models.Account, error)
}
