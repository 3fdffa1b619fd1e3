package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"estate-backoffice/internal/domain/block"
	"estate-backoffice/internal/domain/deal"
	"estate-backoffice/internal/domain/plan"
	"estate-backoffice/internal/domain/policy"
	"estate-backoffice/internal/domain/role"
	"estate-backoffice/internal/domain/unit"
)

// writeError maps domain sentinels onto response codes so handlers stay
// thin. Unknown errors come back opaque.
func writeError(c echo.Context, err error) error {
	if sc, ok := plan.AsStateConflict(err); ok {
		allowed := make([]string, 0, len(sc.Allowed))
		for _, s := range sc.Allowed {
			allowed = append(allowed, string(s))
		}
		return c.JSON(http.StatusConflict, map[string]any{
			"error":          err.Error(),
			"current_status": string(sc.Current),
			"allowed":        allowed,
		})
	}
	switch {
	case errors.Is(err, plan.ErrNotFound),
		errors.Is(err, deal.ErrNotFound),
		errors.Is(err, unit.ErrNotFound),
		errors.Is(err, block.ErrNotFound),
		errors.Is(err, policy.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, role.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, plan.ErrAlreadyAccepted):
		return c.JSON(http.StatusConflict, map[string]any{
			"error": err.Error(),
			"code":  "already_accepted",
		})
	case errors.Is(err, unit.ErrUnavailable),
		errors.Is(err, block.ErrUnitNotAvailable),
		errors.Is(err, block.ErrAlreadyBlocked):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, block.ErrExtensionLimit),
		errors.Is(err, block.ErrDurationLimit):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, plan.ErrInvalidInput),
		errors.Is(err, policy.ErrInvalidScope):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
