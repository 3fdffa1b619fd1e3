package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"estate-backoffice/internal/calc"
	dealDomain "estate-backoffice/internal/domain/deal"
	historyDomain "estate-backoffice/internal/domain/history"
	domainPlan "estate-backoffice/internal/domain/plan"
	"estate-backoffice/internal/domain/role"
	unitDomain "estate-backoffice/internal/domain/unit"
	"estate-backoffice/internal/domain/uow"
	"estate-backoffice/internal/testutil/dealmock"
	"estate-backoffice/internal/testutil/historymock"
	"estate-backoffice/internal/testutil/planmock"
	"estate-backoffice/internal/testutil/policymock"
	"estate-backoffice/internal/testutil/unitmock"
	"estate-backoffice/internal/testutil/uowmock"
	planUC "estate-backoffice/internal/usecase/plan"
)

var (
	hDealID  = strings.Repeat("a", 32)
	hActorID = strings.Repeat("b", 32)
)

// newPlanHandler wires the real usecase to in-memory repositories so the
// handler tests cover binding, validation and error mapping end to end.
func newPlanHandler(t *testing.T) (*PlanHandler, map[string]*domainPlan.PaymentPlan) {
	t.Helper()

	d := &dealDomain.Deal{ID: 1, DealID: hDealID, UnitID: 2, Status: dealDomain.StatusActive}
	un := &unitDomain.Unit{
		ID: 2, UnitID: strings.Repeat("d", 32), Available: true,
		Price: 1_000_000, PlanDurationYears: 5, InstallmentFrequency: calc.FreqMonthly,
	}
	plans := map[string]*domainPlan.PaymentPlan{}

	planRepo := &planmock.Repo{
		CreateFn: func(_ context.Context, p *domainPlan.PaymentPlan) error {
			p.ID = uint64(len(plans) + 1)
			plans[p.PlanID] = p
			return nil
		},
		SaveFn: func(_ context.Context, p *domainPlan.PaymentPlan) error {
			plans[p.PlanID] = p
			return nil
		},
		GetByPlanIDFn: func(_ context.Context, planID string) (*domainPlan.PaymentPlan, error) {
			p, ok := plans[planID]
			if !ok {
				return nil, domainPlan.ErrNotFound
			}
			return p, nil
		},
	}
	planRepo.GetByPlanIDForUpdateFn = planRepo.GetByPlanIDFn

	dealRepo := &dealmock.Repo{
		GetByDealIDFn: func(_ context.Context, dealID string) (*dealDomain.Deal, error) {
			if dealID != d.DealID {
				return nil, dealDomain.ErrNotFound
			}
			return d, nil
		},
		GetByIDFn: func(_ context.Context, id uint64) (*dealDomain.Deal, error) {
			if id != d.ID {
				return nil, dealDomain.ErrNotFound
			}
			return d, nil
		},
		SaveFn: func(context.Context, *dealDomain.Deal) error { return nil },
	}
	dealRepo.GetByDealIDForUpdateFn = dealRepo.GetByDealIDFn

	unitRepo := &unitmock.Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*unitDomain.Unit, error) {
			if id != un.ID {
				return nil, unitDomain.ErrNotFound
			}
			return un, nil
		},
		SetAvailabilityFn: func(context.Context, uint64, bool) error { return nil },
	}
	unitRepo.GetByIDForUpdateFn = unitRepo.GetByIDFn

	hist := &historymock.Repo{
		AppendPlanFn: func(context.Context, *historyDomain.PlanEntry) error { return nil },
		AppendDealFn: func(context.Context, *historyDomain.DealEntry) error { return nil },
	}

	tx := uowmock.New(uow.Repos{
		Plans: planRepo, Votes: &planmock.VoteRepo{},
		Deals: dealRepo, Units: unitRepo,
		Policies: &policymock.Repo{}, History: hist,
	})
	return NewPlanHandler(planUC.NewUsecase(planRepo, dealRepo, tx, nil)), plans
}

func TestCreatePlan_Success(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newPlanHandler(t)

	reqBody := map[string]any{
		"deal_id": hDealID,
		"inputs":  map[string]any{"sales_discount_percent": 1.5},
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/payment-plans", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setActor(c, hActorID, role.PropertyConsultant)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	var got planUC.PlanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Status != domainPlan.StatusPendingSM || got.Version != 1 {
		t.Fatalf("unexpected dto: %+v", got)
	}
	if got.Evaluation == nil {
		t.Fatal("response missing the evaluation")
	}
}

func TestCreatePlan_BindError(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newPlanHandler(t)

	req := httptest.NewRequest(stdhttp.MethodPost, "/payment-plans", strings.NewReader(`{"deal_id":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if er.Error != "invalid body" {
		t.Fatalf("error = %q, want %q", er.Error, "invalid body")
	}
}

func TestCreatePlan_ValidationError(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newPlanHandler(t)

	reqBody := map[string]any{"deal_id": "NOT_HEX"}
	req := httptest.NewRequest(stdhttp.MethodPost, "/payment-plans", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setActor(c, hActorID, role.PropertyConsultant)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if !containsFieldMsg(er.Details, "DealID", "32-char lowercase hex") {
		t.Fatalf("details = %+v", er.Details)
	}
}

func TestCreatePlan_ForbiddenRole(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newPlanHandler(t)

	reqBody := map[string]any{"deal_id": hDealID, "inputs": map[string]any{}}
	req := httptest.NewRequest(stdhttp.MethodPost, "/payment-plans", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setActor(c, hActorID, role.FinancialAdmin)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403; body=%s", rec.Code, rec.Body.String())
	}
}

func TestApprovePlan_StateConflict(t *testing.T) {
	e := newEchoWithValidator()
	h, plans := newPlanHandler(t)

	planID := strings.Repeat("e", 32)
	plans[planID] = &domainPlan.PaymentPlan{
		ID: 1, PlanID: planID, DealID: 1, Version: 1,
		Status: domainPlan.StatusApproved,
	}

	req := httptest.NewRequest(stdhttp.MethodPost, "/payment-plans/"+planID+"/approve", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("plan_id")
	c.SetParamValues(planID)
	setActor(c, hActorID, role.SalesManager)

	if err := h.Approve(c); err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409; body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		CurrentStatus string   `json:"current_status"`
		Allowed       []string `json:"allowed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if body.CurrentStatus != "approved" || len(body.Allowed) != 1 || body.Allowed[0] != "pending_sm" {
		t.Fatalf("conflict body = %+v", body)
	}
}

func TestVotePlan_InvalidDecision(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newPlanHandler(t)

	req := httptest.NewRequest(stdhttp.MethodPost, "/payment-plans/x/votes", mustJSON(map[string]any{"decision": "maybe"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setActor(c, hActorID, role.CEO)

	if err := h.Vote(c); err != nil {
		t.Fatalf("Vote error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestGetPlan_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newPlanHandler(t)

	req := httptest.NewRequest(stdhttp.MethodGet, "/payment-plans/"+strings.Repeat("f", 32), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("plan_id")
	c.SetParamValues(strings.Repeat("f", 32))

	if err := h.Get(c); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
