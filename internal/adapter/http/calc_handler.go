package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"estate-backoffice/internal/calc"
	"estate-backoffice/internal/domain/unit"
)

// CalcHandler serves the pure schedule/PV preview. It runs the same
// evaluator the submission path uses, so a preview decision always matches
// what creating the plan would record.
type CalcHandler struct{ units unit.Repository }

func NewCalcHandler(units unit.Repository) *CalcHandler { return &CalcHandler{units: units} }

type calculateReq struct {
	UnitID       string             `json:"unit_id,omitempty" validate:"omitempty,hex32"`
	Pricing      *calc.UnitPricing  `json:"pricing,omitempty"`
	StandardPlan *calc.StandardPlan `json:"standard_plan,omitempty"`
	Proposal     calc.Proposal      `json:"proposal"`
}

func (h *CalcHandler) Calculate(c echo.Context) error {
	var req calculateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	var (
		pricing calc.UnitPricing
		std     calc.StandardPlan
	)
	switch {
	case req.UnitID != "":
		un, err := h.units.GetByUnitID(c.Request().Context(), req.UnitID)
		if err != nil {
			return writeError(c, err)
		}
		pricing, std = un.Pricing(), un.StandardPlan()
	case req.Pricing != nil && req.StandardPlan != nil:
		pricing, std = *req.Pricing, *req.StandardPlan
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "provide unit_id or pricing with standard_plan"})
	}

	res := calc.Evaluate(req.Proposal, pricing, std)
	return c.JSON(http.StatusOK, res)
}
