// Package httpapi exposes the Ark services over HTTP using echo. Handlers
// return errors; a single error handler turns them into JSON responses with
// the status chosen by StatusFor.
package httpapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/ark/internal/buildinfo"
	"github.com/dmitrijs2005/ark/internal/logging"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/dmitrijs2005/ark/internal/server/services"
	"github.com/dmitrijs2005/ark/internal/server/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AccountService interface {
	Upsert(ctx context.Context, in models.NewAccount) (*models.Account, bool, error)
	Search(ctx context.Context) ([]*models.Account, error)
}

type FileService interface {
	Upload(ctx context.Context, req services.UploadRequest) (*models.FileVersion, error)
	Get(ctx context.Context, accountID uuid.UUID, filepath string, versionID *uuid.UUID) (*models.FileVersion, *storage.Object, error)
	History(ctx context.Context, accountID uuid.UUID, filepath string) (*models.FileHistory, error)
	Search(ctx context.Context, accountID uuid.UUID) ([]models.FileVersion, error)
}

type VersionService interface {
	Create(ctx context.Context, in models.NewVersion) (*models.Version, error)
	Get(ctx context.Context, id uuid.UUID) (*models.VersionData, error)
}

type HealthService interface {
	Check(ctx context.Context) services.HealthStatus
}

// Handler holds the services behind the routes.
type Handler struct {
	accounts AccountService
	files    FileService
	versions VersionService
	health   HealthService
	log      logging.Logger
}

func NewHandler(a AccountService, f FileService, v VersionService, h HealthService, log logging.Logger) *Handler {
	return &Handler{
		accounts: a,
		files:    f,
		versions: v,
		health:   h,
		log:      log.With("module", "httpapi"),
	}
}

// IndexResponse is returned by GET /.
type IndexResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

func (h *Handler) index(c echo.Context) error {
	return c.JSON(http.StatusOK, IndexResponse{Message: "Welcome to Ark", Version: buildinfo.Version})
}

func (h *Handler) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, h.health.Check(c.Request().Context()))
}

// wildcardPath returns the file path captured by the trailing wildcard.
// echo matches on the escaped path when the request has one, so the value
// is unescaped only in that case.
func wildcardPath(c echo.Context) (string, error) {
	p := c.Param("*")
	if c.Request().URL.RawPath == "" {
		return p, nil
	}
	return url.PathUnescape(p)
}
