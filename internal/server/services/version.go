package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/ark/internal/dbx"
	"github.com/dmitrijs2005/ark/internal/logging"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/dmitrijs2005/ark/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// VersionService creates versions explicitly and reads them back with
// their files.
type VersionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewVersionService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *VersionService {
	return &VersionService{
		db:          db,
		repomanager: m,
		log:         log.With("module", "versions"),
	}
}

// Create inserts an empty version for an account. The id and the creation
// time are assigned here and by the database.
func (s *VersionService) Create(ctx context.Context, in models.NewVersion) (*models.Version, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate version id: %w", err)
	}
	in.ID = id

	v, err := s.repomanager.Versions(s.db).Create(ctx, &in)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "version created", "account_id", v.AccountID, "version_id", v.ID)
	return v, nil
}

// Get returns the version and every file version it produced.
func (s *VersionService) Get(ctx context.Context, id uuid.UUID) (*models.VersionData, error) {
	var result *models.VersionData
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn *sql.Conn) error {
		v, err := s.repomanager.Versions(conn).Get(ctx, id)
		if err != nil {
			return err
		}
		files, err := s.repomanager.Files(conn).ListByVersion(ctx, id)
		if err != nil {
			return err
		}
		result = &models.VersionData{Version: *v, Files: files}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
