package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/ark/internal/logging"
	"github.com/dmitrijs2005/ark/internal/server/config"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/sync/errgroup"
)

// Status is the outcome of one dependency check.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HealthStatus aggregates the dependency checks.
type HealthStatus struct {
	Files    Status `json:"files"`
	Archive  Status `json:"archive"`
	Database Status `json:"database"`
}

// HealthService probes the archive directory, the archive server and the
// database. A failing dependency is reported in its own Status and never
// fails the whole check.
type HealthService struct {
	db            *sql.DB
	archiveFiles  string
	archiveServer string
	client        *http.Client
	timeout       time.Duration
	log           logging.Logger
}

func NewHealthService(db *sql.DB, cfg *config.Config, log logging.Logger) *HealthService {
	client := cleanhttp.DefaultClient()
	client.Timeout = cfg.HealthCheckTimeout
	return &HealthService{
		db:            db,
		archiveFiles:  cfg.ArchiveFiles,
		archiveServer: cfg.ArchiveServer,
		client:        client,
		timeout:       cfg.HealthCheckTimeout,
		log:           log.With("module", "health"),
	}
}

func statusOf(code int, msg string) Status {
	if msg == "" {
		msg = http.StatusText(code)
	}
	return Status{Code: code, Message: msg}
}

// Check runs the three probes concurrently.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var result HealthStatus
	var g errgroup.Group
	g.Go(func() error {
		result.Files = s.checkFiles()
		return nil
	})
	g.Go(func() error {
		result.Archive = s.checkArchive(ctx)
		return nil
	})
	g.Go(func() error {
		result.Database = s.checkDatabase(ctx)
		return nil
	})
	_ = g.Wait()

	if result.Files.Code != http.StatusOK || result.Archive.Code != http.StatusOK || result.Database.Code != http.StatusOK {
		s.log.Warn(ctx, "degraded health",
			"files", result.Files.Code, "archive", result.Archive.Code, "database", result.Database.Code)
	}
	return result
}

func (s *HealthService) checkFiles() Status {
	if s.archiveFiles == "" {
		return statusOf(http.StatusNotFound, "ARCHIVE_FILES not set")
	}
	info, err := os.Stat(s.archiveFiles)
	if err != nil || !info.IsDir() {
		return statusOf(http.StatusBadGateway, fmt.Sprintf("ARCHIVE_FILES not found: %s", s.archiveFiles))
	}
	return statusOf(http.StatusOK, "OK")
}

func (s *HealthService) checkArchive(ctx context.Context) Status {
	if s.archiveServer == "" {
		return statusOf(http.StatusNotFound, "ARCHIVE_SERVER not set")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.archiveServer, nil)
	if err != nil {
		return statusOf(http.StatusBadGateway, fmt.Sprintf("%s: %v", http.StatusText(http.StatusBadGateway), err))
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return statusOf(http.StatusBadGateway, fmt.Sprintf("%s: %v", http.StatusText(http.StatusBadGateway), err))
	}
	defer resp.Body.Close()
	return statusOf(resp.StatusCode, "")
}

func (s *HealthService) checkDatabase(ctx context.Context) Status {
	var ok bool
	if err := s.db.QueryRowContext(ctx, "SELECT true").Scan(&ok); err != nil {
		return statusOf(http.StatusBadGateway, fmt.Sprintf("%s: %v", http.StatusText(http.StatusBadGateway), err))
	}
	return statusOf(http.StatusOK, "")
}
