package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	domainDeal "estate-backoffice/internal/domain/deal"
	dealUC "estate-backoffice/internal/usecase/deal"
)

type DealHandler struct{ uc *dealUC.Usecase }

func NewDealHandler(uc *dealUC.Usecase) *DealHandler { return &DealHandler{uc: uc} }

type createDealReq struct {
	Title  string `json:"title" validate:"required"`
	UnitID string `json:"unit_id" validate:"required,hex32"`
}

func (h *DealHandler) Create(c echo.Context) error {
	var req createDealReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	actorID, actorRole := actor(c)
	dto, err := h.uc.Create(c.Request().Context(), dealUC.CreateInput{
		Title:     req.Title,
		UnitID:    req.UnitID,
		ActorID:   actorID,
		ActorRole: actorRole,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *DealHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("deal_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DealHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	dtos, err := h.uc.List(c.Request().Context(), domainDeal.Status(c.QueryParam("status")), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *DealHandler) History(c echo.Context) error {
	entries, err := h.uc.History(c.Request().Context(), c.Param("deal_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

type overrideReq struct {
	Notes string `json:"notes"`
}

func (h *DealHandler) override(c echo.Context) dealUC.OverrideInput {
	var req overrideReq
	_ = c.Bind(&req)
	actorID, actorRole := actor(c)
	return dealUC.OverrideInput{
		DealID:    c.Param("deal_id"),
		ActorID:   actorID,
		ActorRole: actorRole,
		Notes:     req.Notes,
	}
}

func (h *DealHandler) RequestOverride(c echo.Context) error {
	dto, err := h.uc.RequestOverride(c.Request().Context(), h.override(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DealHandler) ApproveOverride(c echo.Context) error {
	dto, err := h.uc.ApproveOverride(c.Request().Context(), h.override(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DealHandler) RejectOverride(c echo.Context) error {
	dto, err := h.uc.RejectOverride(c.Request().Context(), h.override(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
