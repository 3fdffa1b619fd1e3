package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"estate-backoffice/internal/adapter/middleware"
	"estate-backoffice/internal/domain/role"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// actor reads the identity the gateway middleware stashed on the context.
func actor(c echo.Context) (string, role.Role) {
	id, _ := c.Get(middleware.ContextActorID).(string)
	r, _ := c.Get(middleware.ContextActorRole).(role.Role)
	return id, r
}
