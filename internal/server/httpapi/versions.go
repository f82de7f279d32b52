package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h *Handler) createVersion(c echo.Context) error {
	var in models.NewVersion
	if err := decodeJSON(c, &in); err != nil {
		return err
	}
	if in.AccountID == uuid.Nil {
		return fmt.Errorf("%w: account_id is required", common.ErrorInvalidInput)
	}

	v, err := h.versions.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) getVersion(c echo.Context) error {
	id, err := parseUUID("version_id", c.Param("version_id"))
	if err != nil {
		return err
	}

	data, err := h.versions.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}
