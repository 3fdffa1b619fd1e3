package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	policyUC "estate-backoffice/internal/usecase/policy"
)

type PolicyHandler struct{ uc *policyUC.Usecase }

func NewPolicyHandler(uc *policyUC.Usecase) *PolicyHandler { return &PolicyHandler{uc: uc} }

type createPolicyReq struct {
	ProjectID    *uint64 `json:"project_id,omitempty"`
	UnitType     *string `json:"unit_type,omitempty"`
	LimitPercent float64 `json:"limit_percent" validate:"required,gte=0,lte=100,dec2"`
}

func (h *PolicyHandler) Create(c echo.Context) error {
	var req createPolicyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	actorID, actorRole := actor(c)
	p, err := h.uc.Create(c.Request().Context(), policyUC.CreateInput{
		ProjectID:    req.ProjectID,
		UnitType:     req.UnitType,
		LimitPercent: req.LimitPercent,
		CreatedBy:    actorID,
		ActorRole:    actorRole,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PolicyHandler) List(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"
	policies, err := h.uc.List(c.Request().Context(), activeOnly)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, policies)
}
