package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind common.Kind) int {
	switch kind {
	case common.KindKey:
		return http.StatusNotFound
	case common.KindValue:
		return http.StatusConflict
	case common.KindInput:
		return http.StatusBadRequest
	case common.KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case common.KindUpstream:
		return http.StatusBadGateway
	case common.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// handleError is installed as the echo HTTPErrorHandler. Messages of system
// errors are logged and replaced by the status text.
func (h *Handler) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := h.translate(c, err)

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, ErrorResponse{Error: msg})
	}
	if err != nil {
		h.log.Error(c.Request().Context(), "write error response", "error", err)
	}
}

func (h *Handler) translate(c echo.Context, err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	kind := common.KindOf(err)
	status := StatusFor(kind)
	if kind == common.KindSystem {
		h.log.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		return status, http.StatusText(status)
	}
	return status, err.Error()
}

func parseUUID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s %q", common.ErrorInvalidInput, name, value)
	}
	return id, nil
}
