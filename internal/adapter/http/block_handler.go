package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	blockUC "estate-backoffice/internal/usecase/block"
)

type BlockHandler struct{ uc *blockUC.Usecase }

func NewBlockHandler(uc *blockUC.Usecase) *BlockHandler { return &BlockHandler{uc: uc} }

type requestBlockReq struct {
	UnitID       string `json:"unit_id" validate:"required,hex32"`
	DurationDays int    `json:"duration_days" validate:"required,gte=1,lte=28"`
	Reason       string `json:"reason" validate:"required"`
}

func (h *BlockHandler) Request(c echo.Context) error {
	var req requestBlockReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	actorID, actorRole := actor(c)
	b, err := h.uc.Request(c.Request().Context(), blockUC.RequestInput{
		UnitID:       req.UnitID,
		DurationDays: req.DurationDays,
		Reason:       req.Reason,
		ActorID:      actorID,
		ActorRole:    actorRole,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

type decideBlockReq struct {
	Reason string `json:"reason"`
}

func (h *BlockHandler) decide(c echo.Context) blockUC.DecideInput {
	var req decideBlockReq
	_ = c.Bind(&req)
	actorID, actorRole := actor(c)
	return blockUC.DecideInput{
		BlockID:   c.Param("block_id"),
		ActorID:   actorID,
		ActorRole: actorRole,
		Reason:    req.Reason,
	}
}

func (h *BlockHandler) Approve(c echo.Context) error {
	b, err := h.uc.Approve(c.Request().Context(), h.decide(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BlockHandler) Reject(c echo.Context) error {
	b, err := h.uc.Reject(c.Request().Context(), h.decide(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

type extendBlockReq struct {
	AdditionalDays int    `json:"additional_days" validate:"required,gte=1,lte=28"`
	Reason         string `json:"reason" validate:"required"`
}

func (h *BlockHandler) Extend(c echo.Context) error {
	var req extendBlockReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	actorID, actorRole := actor(c)
	b, err := h.uc.Extend(c.Request().Context(), blockUC.ExtendInput{
		BlockID:        c.Param("block_id"),
		AdditionalDays: req.AdditionalDays,
		Reason:         req.Reason,
		ActorID:        actorID,
		ActorRole:      actorRole,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BlockHandler) ListCurrent(c echo.Context) error {
	actorID, actorRole := actor(c)
	blocks, err := h.uc.ListCurrent(c.Request().Context(), actorID, actorRole)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, blocks)
}
