package httpapi

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/dmitrijs2005/ark/internal/server/auth"
	"github.com/labstack/echo/v4"
)

// ClientContextKey holds the authenticated client name in the echo context.
const ClientContextKey = "client"

// bearerAuth rejects requests without a valid HS256 bearer token. An empty
// secret disables the check.
func bearerAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if len(secret) == 0 {
			return next
		}
		return func(c echo.Context) error {
			token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || token == "" {
				return fmt.Errorf("%w: missing bearer token", common.ErrorUnauthorized)
			}

			client, err := auth.ParseToken(token, secret)
			if err != nil {
				return err
			}

			c.Set(ClientContextKey, client)
			return next(c)
		}
	}
}
