package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/logging"
	"github.com/dmitrijs2005/ark/internal/server/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// jsonBodyLimit caps the JSON payloads of the account and version routes.
const jsonBodyLimit = "1M"

// Server is the Ark HTTP API.
type Server struct {
	echo *echo.Echo
	addr string
	log  logging.Logger
}

func NewServer(cfg *config.Config, h *Handler, log logging.Logger) *Server {
	s := &Server{
		echo: echo.New(),
		addr: cfg.EndpointAddrHTTP,
		log:  log.With("module", "http"),
	}
	s.echo.Server.ReadTimeout = cfg.ReadTimeout
	s.setupRoutes(cfg, h)
	return s
}

func (s *Server) setupRoutes(cfg *config.Config, h *Handler) {
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = h.handleError

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				args = append(args, "error", v.Error)
			}
			s.log.Info(c.Request().Context(), "request", args...)
			return nil
		},
	}))
	s.echo.Use(middleware.Recover())
	if cfg.RequestTimeout > 0 {
		s.echo.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout:      cfg.RequestTimeout,
			ErrorHandler: requestTimeoutError,
		}))
	}

	authorize := bearerAuth([]byte(cfg.SecretKey))
	limit := middleware.BodyLimit(jsonBodyLimit)

	s.echo.GET("/", h.index)
	s.echo.GET("/health", h.healthCheck)

	s.echo.POST("/accounts", h.upsertAccount, authorize, limit)
	s.echo.GET("/accounts", h.searchAccounts)
	s.echo.GET("/accounts/:account_id/files", h.searchFiles)
	s.echo.PUT("/accounts/:account_id/files/*", h.uploadFile, authorize)
	s.echo.GET("/accounts/:account_id/files/*", h.getFile)
	s.echo.GET("/accounts/:account_id/history/*", h.fileHistory)

	s.echo.POST("/versions", h.createVersion, authorize, limit)
	s.echo.GET("/versions/:version_id", h.getVersion)
}

// requestTimeoutError reports 503 only when the request deadline itself
// expired and nothing below classified the failure. Everything else goes to
// the central error handler unchanged.
func requestTimeoutError(err error, c echo.Context) error {
	if c.Request().Context().Err() != nil &&
		errors.Is(err, context.DeadlineExceeded) &&
		common.KindOf(err) == common.KindSystem {
		return echo.ErrServiceUnavailable.WithInternal(err)
	}
	return err
}

// ServeHTTP lets the server be mounted in tests without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on the configured address and blocks until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info(ctx, "starting HTTP server", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info(ctx, "shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
