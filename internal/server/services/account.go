// Package services contains the server-side business logic of Ark: the
// account, file, version and health operations behind the HTTP handlers.
// Services own transactions; repositories only run statements.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/logging"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/dmitrijs2005/ark/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AccountService upserts and lists accounts.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "accounts"),
	}
}

// Upsert inserts the account, or replaces title and meta of the account with
// the same id. An account without id gets a new one. created reports an
// insert.
func (s *AccountService) Upsert(ctx context.Context, in models.NewAccount) (*models.Account, bool, error) {
	if in.ID == nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, false, fmt.Errorf("generate account id: %w", err)
		}
		in.ID = &id
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, false, fmt.Errorf("%w: title must not be blank", common.ErrorInvalidInput)
		}
		in.Title = &title
	}

	acc, created, err := s.repomanager.Accounts(s.db).Upsert(ctx, &in)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.log.Info(ctx, "account created", "account_id", acc.ID)
	} else {
		s.log.Info(ctx, "account updated", "account_id", acc.ID)
	}
	return acc, created, nil
}

// Search lists every account.
// TODO: filter by title and meta once the query parameters are agreed on.
func (s *AccountService) Search(ctx context.Context) ([]*models.Account, error) {
	return s.repomanager.Accounts(s.db).List(ctx)
}
