package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"estate-backoffice/internal/calc"
	domainPlan "estate-backoffice/internal/domain/plan"
	planUC "estate-backoffice/internal/usecase/plan"
)

type PlanHandler struct{ uc *planUC.Usecase }

func NewPlanHandler(uc *planUC.Usecase) *PlanHandler { return &PlanHandler{uc: uc} }

type createPlanReq struct {
	DealID string        `json:"deal_id" validate:"required,hex32"`
	Inputs calc.Proposal `json:"inputs"`
}

func (h *PlanHandler) Create(c echo.Context) error {
	var req createPlanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	actorID, actorRole := actor(c)
	dto, err := h.uc.Create(c.Request().Context(), planUC.CreateInput{
		DealID:    req.DealID,
		Inputs:    req.Inputs,
		ActorID:   actorID,
		ActorRole: actorRole,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PlanHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("plan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PlanHandler) List(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context(), planUC.ListInput{
		DealID:    c.QueryParam("deal_id"),
		Status:    domainPlan.Status(c.QueryParam("status")),
		CreatedBy: c.QueryParam("created_by"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

type planActionReq struct {
	Reason *string `json:"reason,omitempty"`
}

func (h *PlanHandler) action(c echo.Context) planUC.ActionInput {
	var req planActionReq
	_ = c.Bind(&req)
	actorID, actorRole := actor(c)
	return planUC.ActionInput{
		PlanID:    c.Param("plan_id"),
		ActorID:   actorID,
		ActorRole: actorRole,
		Reason:    req.Reason,
	}
}

func (h *PlanHandler) Approve(c echo.Context) error {
	dto, err := h.uc.Approve(c.Request().Context(), h.action(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PlanHandler) Reject(c echo.Context) error {
	dto, err := h.uc.Reject(c.Request().Context(), h.action(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type voteReq struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

func (h *PlanHandler) Vote(c echo.Context) error {
	var req voteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	actorID, actorRole := actor(c)
	dto, err := h.uc.CastVote(c.Request().Context(), planUC.VoteInput{
		PlanID:    c.Param("plan_id"),
		ActorID:   actorID,
		ActorRole: actorRole,
		Decision:  domainPlan.VoteDecision(req.Decision),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PlanHandler) NewVersion(c echo.Context) error {
	dto, err := h.uc.NewVersion(c.Request().Context(), h.action(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PlanHandler) MarkAccepted(c echo.Context) error {
	dto, err := h.uc.MarkAccepted(c.Request().Context(), h.action(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PlanHandler) History(c echo.Context) error {
	entries, err := h.uc.History(c.Request().Context(), c.Param("plan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
