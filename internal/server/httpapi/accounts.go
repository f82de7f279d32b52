package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/server/models"
	"github.com/labstack/echo/v4"
)

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(c echo.Context, v any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: malformed JSON body: %v", common.ErrorInvalidInput, err)
	}
	return nil
}

func (h *Handler) upsertAccount(c echo.Context) error {
	var in models.NewAccount
	if err := decodeJSON(c, &in); err != nil {
		return err
	}

	account, created, err := h.accounts.Upsert(c.Request().Context(), in)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, account)
}

func (h *Handler) searchAccounts(c echo.Context) error {
	accounts, err := h.accounts.Search(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}
