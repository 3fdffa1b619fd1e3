package plan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"estate-backoffice/internal/calc"
	dealDomain "estate-backoffice/internal/domain/deal"
	historyDomain "estate-backoffice/internal/domain/history"
	domainPlan "estate-backoffice/internal/domain/plan"
	policyDomain "estate-backoffice/internal/domain/policy"
	"estate-backoffice/internal/domain/role"
	unitDomain "estate-backoffice/internal/domain/unit"
	"estate-backoffice/internal/domain/uow"
	"estate-backoffice/internal/testutil/dealmock"
	"estate-backoffice/internal/testutil/historymock"
	"estate-backoffice/internal/testutil/planmock"
	"estate-backoffice/internal/testutil/policymock"
	"estate-backoffice/internal/testutil/unitmock"
	"estate-backoffice/internal/testutil/uowmock"
)

const (
	testDealID  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testActorID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	otherActor  = "cccccccccccccccccccccccccccccccc"
)

// fixture wires the usecase to in-memory repositories so transitions run
// end to end without a database.
type fixture struct {
	deal *dealDomain.Deal
	unit *unitDomain.Unit

	plans       map[string]*domainPlan.PaymentPlan
	nextPlanID  uint64
	votes       map[string]domainPlan.VoteDecision
	planHistory []historyDomain.PlanEntry
	dealHistory []historyDomain.DealEntry

	availabilityCalls []bool

	policies *policymock.Repo
	uc       *Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		deal: &dealDomain.Deal{ID: 1, DealID: testDealID, UnitID: 2, Status: dealDomain.StatusActive},
		unit: &unitDomain.Unit{
			ID: 2, UnitID: "dddddddddddddddddddddddddddddddd",
			UnitType: "villa", ProjectID: 9, Available: true,
			Price:             1_000_000,
			PlanDurationYears: 5, InstallmentFrequency: calc.FreqMonthly,
		},
		plans:    map[string]*domainPlan.PaymentPlan{},
		votes:    map[string]domainPlan.VoteDecision{},
		policies: &policymock.Repo{},
	}

	plans := &planmock.Repo{
		CreateFn: func(_ context.Context, p *domainPlan.PaymentPlan) error {
			f.nextPlanID++
			p.ID = f.nextPlanID
			f.plans[p.PlanID] = p
			return nil
		},
		SaveFn: func(_ context.Context, p *domainPlan.PaymentPlan) error {
			f.plans[p.PlanID] = p
			return nil
		},
		GetByPlanIDFn: func(_ context.Context, planID string) (*domainPlan.PaymentPlan, error) {
			p, ok := f.plans[planID]
			if !ok {
				return nil, domainPlan.ErrNotFound
			}
			return p, nil
		},
		NextVersionFn: func(_ context.Context, dealID uint64) (int, error) {
			max := 0
			for _, p := range f.plans {
				if p.DealID == dealID && p.Version > max {
					max = p.Version
				}
			}
			return max + 1, nil
		},
	}
	plans.GetByPlanIDForUpdateFn = plans.GetByPlanIDFn

	votes := &planmock.VoteRepo{
		UpsertFn: func(_ context.Context, v *domainPlan.TMVote) error {
			f.votes[v.ApproverID] = v.Decision
			return nil
		},
		ListByPlanIDFn: func(_ context.Context, _ uint64) ([]domainPlan.TMVote, error) {
			out := make([]domainPlan.TMVote, 0, len(f.votes))
			for approver, d := range f.votes {
				out = append(out, domainPlan.TMVote{ApproverID: approver, Decision: d})
			}
			return out, nil
		},
	}

	deals := &dealmock.Repo{
		GetByDealIDFn: func(_ context.Context, dealID string) (*dealDomain.Deal, error) {
			if dealID != f.deal.DealID {
				return nil, dealDomain.ErrNotFound
			}
			return f.deal, nil
		},
		GetByIDFn: func(_ context.Context, id uint64) (*dealDomain.Deal, error) {
			if id != f.deal.ID {
				return nil, dealDomain.ErrNotFound
			}
			return f.deal, nil
		},
	}
	deals.GetByDealIDForUpdateFn = deals.GetByDealIDFn

	units := &unitmock.Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*unitDomain.Unit, error) {
			if id != f.unit.ID {
				return nil, unitDomain.ErrNotFound
			}
			return f.unit, nil
		},
		SetAvailabilityFn: func(_ context.Context, _ uint64, available bool) error {
			f.unit.Available = available
			f.availabilityCalls = append(f.availabilityCalls, available)
			return nil
		},
	}
	units.GetByIDForUpdateFn = units.GetByIDFn

	hist := &historymock.Repo{
		AppendPlanFn: func(_ context.Context, e *historyDomain.PlanEntry) error {
			f.planHistory = append(f.planHistory, *e)
			return nil
		},
		AppendDealFn: func(_ context.Context, e *historyDomain.DealEntry) error {
			f.dealHistory = append(f.dealHistory, *e)
			return nil
		},
	}

	repos := uow.Repos{
		Plans:    plans,
		Votes:    votes,
		Deals:    deals,
		Units:    units,
		Policies: f.policies,
		History:  hist,
	}
	f.uc = NewUsecase(plans, deals, uowmock.New(repos), nil)
	return f
}

func (f *fixture) seedPlan(status domainPlan.Status, discount float64) *domainPlan.PaymentPlan {
	f.nextPlanID++
	p := &domainPlan.PaymentPlan{
		ID:      f.nextPlanID,
		PlanID:  strings.Repeat("e", 30) + "0" + string(rune('0'+f.nextPlanID%10)),
		DealID:  f.deal.ID,
		Version: len(f.plans) + 1,
		Inputs:  calc.Proposal{SalesDiscountPercent: discount},
		Status:  status,
	}
	f.plans[p.PlanID] = p
	return p
}

func TestCreate_RoutingByRole(t *testing.T) {
	cases := []struct {
		name       string
		actorRole  role.Role
		discount   float64
		wantStatus domainPlan.Status
		wantLocked bool
		wantApprBy bool
	}{
		{"consultant always lands at sales tier", role.PropertyConsultant, 1, domainPlan.StatusPendingSM, false, false},
		{"sales manager small discount approves", role.SalesManager, 2, domainPlan.StatusApproved, true, true},
		{"sales manager over threshold escalates", role.SalesManager, 2.5, domainPlan.StatusPendingFM, false, false},
		{"financial manager within policy approves", role.FinancialManager, 5, domainPlan.StatusApproved, true, true},
		{"financial manager over policy escalates", role.FinancialManager, 6, domainPlan.StatusPendingTM, false, true},
		{"superadmin approves outright", role.Superadmin, 9, domainPlan.StatusApproved, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			dto, err := f.uc.Create(context.Background(), CreateInput{
				DealID:    testDealID,
				Inputs:    calc.Proposal{SalesDiscountPercent: tc.discount},
				ActorID:   testActorID,
				ActorRole: tc.actorRole,
			})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if dto.Status != tc.wantStatus {
				t.Errorf("status = %s, want %s", dto.Status, tc.wantStatus)
			}
			if dto.Version != 1 {
				t.Errorf("version = %d, want 1", dto.Version)
			}
			if locked := len(f.availabilityCalls) > 0; locked != tc.wantLocked {
				t.Errorf("unit locked = %v, want %v", locked, tc.wantLocked)
			}
			if got := dto.ApprovedBy != nil; got != tc.wantApprBy {
				t.Errorf("approved_by set = %v, want %v", got, tc.wantApprBy)
			}
			if len(f.planHistory) == 0 {
				t.Fatal("no history entry written")
			}
			h := f.planHistory[0]
			if h.Action != "create" || h.ToStatus != string(tc.wantStatus) || h.FromStatus != "" {
				t.Errorf("history = %+v", h)
			}
		})
	}
}

func TestCreate_UsesResolvedPolicyLimit(t *testing.T) {
	f := newFixture(t)
	f.policies.ActiveByProjectFn = func(_ context.Context, projectID uint64) (*policyDomain.ApprovalPolicy, error) {
		if projectID != 9 {
			t.Errorf("resolved against project %d, want 9", projectID)
		}
		return &policyDomain.ApprovalPolicy{LimitPercent: 8, Active: true}, nil
	}

	dto, err := f.uc.Create(context.Background(), CreateInput{
		DealID:    testDealID,
		Inputs:    calc.Proposal{SalesDiscountPercent: 7},
		ActorID:   testActorID,
		ActorRole: role.FinancialManager,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Status != domainPlan.StatusApproved {
		t.Errorf("status = %s, want approved under project limit 8", dto.Status)
	}
}

func TestCreate_FlagsDealWhenEvaluationRejects(t *testing.T) {
	f := newFixture(t)
	// a plain discount with no compensating structure always sinks the PV
	// below the standard baseline
	_, err := f.uc.Create(context.Background(), CreateInput{
		DealID:    testDealID,
		Inputs:    calc.Proposal{SalesDiscountPercent: 1},
		ActorID:   testActorID,
		ActorRole: role.PropertyConsultant,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !f.deal.NeedsOverride {
		t.Fatal("deal not flagged for override")
	}
	if f.deal.OverrideReason == nil || !strings.Contains(*f.deal.OverrideReason, "pv_vs_standard") {
		t.Errorf("override reason = %v", f.deal.OverrideReason)
	}
	if len(f.dealHistory) != 1 || f.dealHistory[0].Action != "needs_override_flagged" {
		t.Errorf("deal history = %+v", f.dealHistory)
	}
}

func TestCreate_CleanEvaluationLeavesDealUnflagged(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), CreateInput{
		DealID:    testDealID,
		Inputs:    calc.Proposal{},
		ActorID:   testActorID,
		ActorRole: role.PropertyConsultant,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.deal.NeedsOverride {
		t.Fatal("deal flagged on a matching proposal")
	}
	if len(f.dealHistory) != 0 {
		t.Errorf("unexpected deal history: %+v", f.dealHistory)
	}
}

func TestCreate_Guards(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), CreateInput{
		DealID: testDealID, ActorID: testActorID, ActorRole: role.FinancialAdmin,
	})
	if !errors.Is(err, role.ErrForbidden) {
		t.Errorf("financial_admin create: err = %v, want ErrForbidden", err)
	}

	_, err = f.uc.Create(context.Background(), CreateInput{
		DealID:    testDealID,
		Inputs:    calc.Proposal{SalesDiscountPercent: 150},
		ActorID:   testActorID,
		ActorRole: role.PropertyConsultant,
	})
	if !errors.Is(err, domainPlan.ErrInvalidInput) {
		t.Errorf("discount 150: err = %v, want ErrInvalidInput", err)
	}

	_, err = f.uc.Create(context.Background(), CreateInput{
		DealID:    "ffffffffffffffffffffffffffffffff",
		ActorID:   testActorID,
		ActorRole: role.PropertyConsultant,
	})
	if !errors.Is(err, dealDomain.ErrNotFound) {
		t.Errorf("unknown deal: err = %v, want deal ErrNotFound", err)
	}
}

func TestApprove_SalesManagerThreshold(t *testing.T) {
	t.Run("small discount finalizes", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusPendingSM, 1.5)
		dto, err := f.uc.Approve(context.Background(), ActionInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.SalesManager,
		})
		if err != nil {
			t.Fatalf("Approve: %v", err)
		}
		if dto.Status != domainPlan.StatusApproved {
			t.Errorf("status = %s, want approved", dto.Status)
		}
		if dto.ApprovedBy == nil || *dto.ApprovedBy != testActorID {
			t.Errorf("approved_by = %v", dto.ApprovedBy)
		}
		if f.unit.Available {
			t.Error("unit not locked on approval")
		}
	})

	t.Run("large discount escalates to financial tier", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusPendingSM, 4)
		dto, err := f.uc.Approve(context.Background(), ActionInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.SalesManager,
		})
		if err != nil {
			t.Fatalf("Approve: %v", err)
		}
		if dto.Status != domainPlan.StatusPendingFM {
			t.Errorf("status = %s, want pending_fm", dto.Status)
		}
		if dto.ApprovedBy != nil {
			t.Error("sales escalation must not record an approver")
		}
		if !f.unit.Available {
			t.Error("unit locked on escalation")
		}
	})

	t.Run("wrong tier is a state conflict", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusPendingFM, 4)
		_, err := f.uc.Approve(context.Background(), ActionInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.SalesManager,
		})
		sc, ok := domainPlan.AsStateConflict(err)
		if !ok {
			t.Fatalf("err = %v, want StateConflictError", err)
		}
		if sc.Current != domainPlan.StatusPendingFM || len(sc.Allowed) != 1 || sc.Allowed[0] != domainPlan.StatusPendingSM {
			t.Errorf("conflict = %+v", sc)
		}
		if len(f.planHistory) != 0 {
			t.Error("rejected attempt wrote history")
		}
	})
}

func TestApprove_FinancialManagerReResolvesPolicy(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlan(domainPlan.StatusPendingFM, 9)

	// policy raised after submission; action-time resolution honors it
	f.policies.ActiveGlobalFn = func(context.Context) (*policyDomain.ApprovalPolicy, error) {
		return &policyDomain.ApprovalPolicy{LimitPercent: 10, Active: true}, nil
	}

	dto, err := f.uc.Approve(context.Background(), ActionInput{
		PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.FinancialManager,
	})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if dto.Status != domainPlan.StatusApproved {
		t.Errorf("status = %s, want approved under raised limit", dto.Status)
	}
}

func TestApprove_FinancialEscalationKeepsProvenance(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlan(domainPlan.StatusPendingFM, 9)

	dto, err := f.uc.Approve(context.Background(), ActionInput{
		PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.FinancialManager,
	})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if dto.Status != domainPlan.StatusPendingTM {
		t.Fatalf("status = %s, want pending_tm", dto.Status)
	}
	// the escalating manager stays on record even though the plan is not
	// finally approved
	if dto.ApprovedBy == nil || *dto.ApprovedBy != testActorID {
		t.Errorf("approved_by = %v, want escalating manager", dto.ApprovedBy)
	}
}

func TestApprove_Guards(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlan(domainPlan.StatusApproved, 1)

	_, err := f.uc.Approve(context.Background(), ActionInput{
		PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.PropertyConsultant,
	})
	if !errors.Is(err, role.ErrForbidden) {
		t.Errorf("consultant approve: err = %v, want ErrForbidden", err)
	}

	_, err = f.uc.Approve(context.Background(), ActionInput{
		PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.Superadmin,
	})
	if _, ok := domainPlan.AsStateConflict(err); !ok {
		t.Errorf("approve on approved: err = %v, want StateConflictError", err)
	}
}

func TestReject_TierRules(t *testing.T) {
	reason := "pricing out of band"

	t.Run("sales manager rejects own tier only", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusPendingSM, 3)
		dto, err := f.uc.Reject(context.Background(), ActionInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.SalesManager, Reason: &reason,
		})
		if err != nil {
			t.Fatalf("Reject: %v", err)
		}
		if dto.Status != domainPlan.StatusRejected {
			t.Errorf("status = %s, want rejected", dto.Status)
		}
		if h := f.planHistory[len(f.planHistory)-1]; h.Reason == nil || *h.Reason != reason {
			t.Errorf("history reason = %v", h.Reason)
		}

		f2 := newFixture(t)
		p2 := f2.seedPlan(domainPlan.StatusPendingTM, 3)
		_, err = f2.uc.Reject(context.Background(), ActionInput{
			PlanID: p2.PlanID, ActorID: testActorID, ActorRole: role.SalesManager,
		})
		if _, ok := domainPlan.AsStateConflict(err); !ok {
			t.Errorf("SM reject at TM tier: err = %v, want StateConflictError", err)
		}
	})

	t.Run("financial manager rejects from any pending tier", func(t *testing.T) {
		for _, status := range []domainPlan.Status{domainPlan.StatusPendingSM, domainPlan.StatusPendingFM, domainPlan.StatusPendingTM} {
			f := newFixture(t)
			p := f.seedPlan(status, 3)
			dto, err := f.uc.Reject(context.Background(), ActionInput{
				PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.FinancialManager,
			})
			if err != nil {
				t.Fatalf("Reject from %s: %v", status, err)
			}
			if dto.Status != domainPlan.StatusRejected {
				t.Errorf("status = %s, want rejected", dto.Status)
			}
		}
	})

	t.Run("terminal plans cannot be rejected", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusRejected, 3)
		_, err := f.uc.Reject(context.Background(), ActionInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.FinancialManager,
		})
		if _, ok := domainPlan.AsStateConflict(err); !ok {
			t.Errorf("err = %v, want StateConflictError", err)
		}
	})
}

func TestCastVote_Quorum(t *testing.T) {
	t.Run("single approve keeps the plan pending", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusPendingTM, 9)
		dto, err := f.uc.CastVote(context.Background(), VoteInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.CEO, Decision: domainPlan.VoteApprove,
		})
		if err != nil {
			t.Fatalf("CastVote: %v", err)
		}
		if dto.Status != domainPlan.StatusPendingTM {
			t.Errorf("status = %s, want pending_tm", dto.Status)
		}
	})

	t.Run("two distinct approves finalize", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusPendingTM, 9)
		if _, err := f.uc.CastVote(context.Background(), VoteInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.CEO, Decision: domainPlan.VoteApprove,
		}); err != nil {
			t.Fatalf("first vote: %v", err)
		}
		dto, err := f.uc.CastVote(context.Background(), VoteInput{
			PlanID: p.PlanID, ActorID: otherActor, ActorRole: role.Chairman, Decision: domainPlan.VoteApprove,
		})
		if err != nil {
			t.Fatalf("second vote: %v", err)
		}
		if dto.Status != domainPlan.StatusApproved {
			t.Errorf("status = %s, want approved", dto.Status)
		}
		if f.unit.Available {
			t.Error("unit not locked on quorum approval")
		}
	})

	t.Run("re-voting overwrites instead of double counting", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusPendingTM, 9)
		for i := 0; i < 2; i++ {
			dto, err := f.uc.CastVote(context.Background(), VoteInput{
				PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.CEO, Decision: domainPlan.VoteApprove,
			})
			if err != nil {
				t.Fatalf("vote %d: %v", i, err)
			}
			if dto.Status != domainPlan.StatusPendingTM {
				t.Fatalf("vote %d: status = %s, want pending_tm", i, dto.Status)
			}
		}
	})

	t.Run("one reject vote finalizes rejection despite approvals", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusPendingTM, 9)
		if _, err := f.uc.CastVote(context.Background(), VoteInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.CEO, Decision: domainPlan.VoteApprove,
		}); err != nil {
			t.Fatalf("approve vote: %v", err)
		}
		dto, err := f.uc.CastVote(context.Background(), VoteInput{
			PlanID: p.PlanID, ActorID: otherActor, ActorRole: role.ViceChairman, Decision: domainPlan.VoteReject,
		})
		if err != nil {
			t.Fatalf("reject vote: %v", err)
		}
		if dto.Status != domainPlan.StatusRejected {
			t.Errorf("status = %s, want rejected", dto.Status)
		}
		if !f.unit.Available {
			t.Error("unit locked on rejection")
		}
	})

	t.Run("guards", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusPendingTM, 9)
		_, err := f.uc.CastVote(context.Background(), VoteInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.FinancialManager, Decision: domainPlan.VoteApprove,
		})
		if !errors.Is(err, role.ErrForbidden) {
			t.Errorf("FM vote: err = %v, want ErrForbidden", err)
		}

		p2 := f.seedPlan(domainPlan.StatusPendingFM, 9)
		_, err = f.uc.CastVote(context.Background(), VoteInput{
			PlanID: p2.PlanID, ActorID: testActorID, ActorRole: role.CEO, Decision: domainPlan.VoteApprove,
		})
		if _, ok := domainPlan.AsStateConflict(err); !ok {
			t.Errorf("vote outside pending_tm: err = %v, want StateConflictError", err)
		}
	})
}

func TestNewVersion(t *testing.T) {
	f := newFixture(t)
	src := f.seedPlan(domainPlan.StatusRejected, 4)
	srcStatus := src.Status

	dto, err := f.uc.NewVersion(context.Background(), ActionInput{
		PlanID: src.PlanID, ActorID: testActorID, ActorRole: role.PropertyConsultant,
	})
	if err != nil {
		t.Fatalf("NewVersion: %v", err)
	}
	if dto.Version != src.Version+1 {
		t.Errorf("version = %d, want %d", dto.Version, src.Version+1)
	}
	if dto.Status != domainPlan.StatusPendingSM {
		t.Errorf("status = %s, want pending_sm", dto.Status)
	}
	if dto.SupersedesID == nil || *dto.SupersedesID != src.ID {
		t.Errorf("supersedes = %v, want %d", dto.SupersedesID, src.ID)
	}
	if dto.Inputs.SalesDiscountPercent != src.Inputs.SalesDiscountPercent {
		t.Error("inputs not carried over")
	}
	if src.Status != srcStatus {
		t.Error("source plan mutated")
	}

	_, err = f.uc.NewVersion(context.Background(), ActionInput{
		PlanID: src.PlanID, ActorID: testActorID, ActorRole: role.FinancialAdmin,
	})
	if !errors.Is(err, role.ErrForbidden) {
		t.Errorf("financial_admin new version: err = %v, want ErrForbidden", err)
	}
}

func TestMarkAccepted(t *testing.T) {
	t.Run("approved plan accepts once", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusApproved, 1)
		dto, err := f.uc.MarkAccepted(context.Background(), ActionInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.FinancialManager,
		})
		if err != nil {
			t.Fatalf("MarkAccepted: %v", err)
		}
		if !dto.Accepted || dto.AcceptedAt == nil {
			t.Errorf("dto = %+v", dto)
		}
		if p.AcceptedDealID == nil || *p.AcceptedDealID != f.deal.ID {
			t.Errorf("accepted_deal_id = %v, want %d", p.AcceptedDealID, f.deal.ID)
		}
	})

	t.Run("pending plan is a state conflict", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusPendingFM, 1)
		_, err := f.uc.MarkAccepted(context.Background(), ActionInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.FinancialManager,
		})
		sc, ok := domainPlan.AsStateConflict(err)
		if !ok {
			t.Fatalf("err = %v, want StateConflictError", err)
		}
		if len(sc.Allowed) != 1 || sc.Allowed[0] != domainPlan.StatusApproved {
			t.Errorf("allowed = %v", sc.Allowed)
		}
	})

	t.Run("duplicate key surfaces as AlreadyAccepted", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusApproved, 1)
		repos := f.uc.uow.(*uowmock.UoW).Repos
		repos.Plans.(*planmock.Repo).SaveFn = func(context.Context, *domainPlan.PaymentPlan) error {
			return gorm.ErrDuplicatedKey
		}
		_, err := f.uc.MarkAccepted(context.Background(), ActionInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.FinancialManager,
		})
		if !errors.Is(err, domainPlan.ErrAlreadyAccepted) {
			t.Fatalf("err = %v, want ErrAlreadyAccepted", err)
		}
	})

	t.Run("role gate", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(domainPlan.StatusApproved, 1)
		_, err := f.uc.MarkAccepted(context.Background(), ActionInput{
			PlanID: p.PlanID, ActorID: testActorID, ActorRole: role.PropertyConsultant,
		})
		if !errors.Is(err, role.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})
}
