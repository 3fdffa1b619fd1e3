package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"estate-backoffice/internal/domain/role"
)

// Identity headers set by the gateway. The service trusts them; there is no
// credential handling here.
const (
	HeaderActorID   = "Ax-Actor-Id"
	HeaderActorRole = "Ax-Actor-Role"

	ContextActorID   = "actor_id"
	ContextActorRole = "actor_role"
)

// Identity requires a well-formed actor id and a known role on every
// request it wraps and stashes both in the echo context.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actorID := strings.TrimSpace(c.Request().Header.Get(HeaderActorID))
			if !reHex32.MatchString(actorID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing or invalid " + HeaderActorID})
			}
			r := role.Role(strings.TrimSpace(c.Request().Header.Get(HeaderActorRole)))
			if !r.Valid() {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing or invalid " + HeaderActorRole})
			}
			c.Set(ContextActorID, actorID)
			c.Set(ContextActorRole, r)
			return next(c)
		}
	}
}
