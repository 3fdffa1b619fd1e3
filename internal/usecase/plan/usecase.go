package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"estate-backoffice/internal/calc"
	"estate-backoffice/internal/domain/deal"
	"estate-backoffice/internal/domain/history"
	domainPlan "estate-backoffice/internal/domain/plan"
	"estate-backoffice/internal/domain/role"
	"estate-backoffice/internal/domain/unit"
	"estate-backoffice/internal/domain/uow"
	"estate-backoffice/internal/notify"
	policyUC "estate-backoffice/internal/usecase/policy"
	"estate-backoffice/pkg/id"
)

type Usecase struct {
	plans    domainPlan.Repository
	deals    deal.Repository
	uow      uow.UnitOfWork
	notifier notify.Notifier
}

func NewUsecase(plans domainPlan.Repository, deals deal.Repository, tx uow.UnitOfWork, n notify.Notifier) *Usecase {
	if n == nil {
		n = notify.Noop{}
	}
	return &Usecase{plans: plans, deals: deals, uow: tx, notifier: n}
}

func validateInputs(in calc.Proposal) error {
	if in.SalesDiscountPercent < 0 || in.SalesDiscountPercent > 100 {
		return fmt.Errorf("%w: sales discount %.2f out of range", domainPlan.ErrInvalidInput, in.SalesDiscountPercent)
	}
	if in.InstallmentFrequency != "" && !in.InstallmentFrequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", domainPlan.ErrInvalidInput, in.InstallmentFrequency)
	}
	switch in.DPType {
	case "", "percentage", "amount":
	default:
		return fmt.Errorf("%w: unknown dp type %q", domainPlan.ErrInvalidInput, in.DPType)
	}
	if in.PlanDurationYears < 0 || in.HandoverYear < 0 {
		return fmt.Errorf("%w: negative duration", domainPlan.ErrInvalidInput)
	}
	return nil
}

// Create persists one submission attempt. The creator's role routes the
// initial status; sales and financial managers get their thresholds applied
// immediately so a small enough discount lands approved without a second
// actor.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*PlanDTO, error) {
	if err := validateInputs(in.Inputs); err != nil {
		return nil, err
	}
	switch {
	case in.ActorRole == role.PropertyConsultant,
		in.ActorRole == role.SalesManager,
		in.ActorRole == role.FinancialManager,
		in.ActorRole.Superuser():
	default:
		return nil, fmt.Errorf("create plan as %s: %w", in.ActorRole, role.ErrForbidden)
	}

	var (
		dto    *PlanDTO
		events []notify.Event
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Deals.GetByDealIDForUpdate(ctx, in.DealID)
		if err != nil {
			return err
		}
		un, err := r.Units.GetByID(ctx, d.UnitID)
		if err != nil {
			return err
		}

		res := calc.Evaluate(in.Inputs, un.Pricing(), un.StandardPlan())

		status := domainPlan.StatusPendingSM
		var approvedBy *string
		switch {
		case in.ActorRole.Superuser():
			status = domainPlan.StatusApproved
			approvedBy = &in.ActorID
		case in.ActorRole == role.SalesManager:
			if in.Inputs.SalesDiscountPercent <= domainPlan.ConsultantMaxDiscountPercent {
				status = domainPlan.StatusApproved
				approvedBy = &in.ActorID
			} else {
				status = domainPlan.StatusPendingFM
			}
		case in.ActorRole == role.FinancialManager:
			limit, err := policyUC.ResolveLimit(ctx, r.Policies, un.ProjectID, un.UnitType)
			if err != nil {
				return err
			}
			if in.Inputs.SalesDiscountPercent <= limit {
				status = domainPlan.StatusApproved
			} else {
				status = domainPlan.StatusPendingTM
			}
			// The financial manager is recorded either way: on escalation
			// the field carries provenance, not final sign-off.
			approvedBy = &in.ActorID
		}

		version, err := r.Plans.NextVersion(ctx, d.ID)
		if err != nil {
			return err
		}
		p := &domainPlan.PaymentPlan{
			PlanID:          id.NewID32(),
			DealID:          d.ID,
			Version:         version,
			Inputs:          in.Inputs,
			Status:          status,
			CreatedBy:       in.ActorID,
			ApprovedBy:      approvedBy,
			StatusUpdatedAt: time.Now().UTC(),
		}
		if err := r.Plans.Create(ctx, p); err != nil {
			return err
		}
		if status == domainPlan.StatusApproved {
			if err := lockUnit(ctx, r, d.UnitID); err != nil {
				return err
			}
		}
		if err := r.History.AppendPlan(ctx, &history.PlanEntry{
			PaymentPlanID: p.ID,
			Action:        "create",
			ActorID:       in.ActorID,
			ActorRole:     string(in.ActorRole),
			FromStatus:    "",
			ToStatus:      string(status),
		}); err != nil {
			return err
		}

		if res.Evaluation.Decision == calc.DecisionNeedsOverride {
			reason := failedConditions(res.Evaluation)
			d.NeedsOverride = true
			d.OverrideReason = &reason
			if err := r.Deals.Save(ctx, d); err != nil {
				return err
			}
			if err := r.History.AppendDeal(ctx, &history.DealEntry{
				DealID:    d.ID,
				Action:    "needs_override_flagged",
				ActorID:   in.ActorID,
				ActorRole: string(in.ActorRole),
				Notes:     &reason,
			}); err != nil {
				return err
			}
			events = append(events, notify.Event{
				Type: "deal_needs_override", RefTable: "deals", RefID: d.ID,
				Message: fmt.Sprintf("deal %s flagged for override: %s", d.DealID, reason),
			})
		}

		if status.Pending() {
			events = append(events, notify.Event{
				Type: "plan_awaiting_review", RefTable: "payment_plans", RefID: p.ID,
				Message: fmt.Sprintf("plan %s v%d awaiting %s", p.PlanID, p.Version, status),
			})
		}
		dto = toDTO(p, d.DealID, &res.Evaluation)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.dispatch(ctx, events)
	return dto, nil
}

// Approve applies the role's threshold at action time. A sales manager can
// only finalize small discounts and escalates the rest; a financial manager
// re-resolves the policy limit on every call, so a policy change between
// submission and review takes effect here.
func (u *Usecase) Approve(ctx context.Context, in ActionInput) (*PlanDTO, error) {
	var (
		dto    *PlanDTO
		events []notify.Event
	)
	err := u.uow.WithinPlanTx(ctx, in.PlanID, func(r uow.Repos, p *domainPlan.PaymentPlan) error {
		d, err := r.Deals.GetByID(ctx, p.DealID)
		if err != nil {
			return err
		}

		var next domainPlan.Status
		switch {
		case in.ActorRole.Superuser():
			if !p.Status.Pending() {
				return &domainPlan.StateConflictError{Action: "approve", Current: p.Status,
					Allowed: []domainPlan.Status{domainPlan.StatusPendingSM, domainPlan.StatusPendingFM, domainPlan.StatusPendingTM}}
			}
			next = domainPlan.StatusApproved
			p.ApprovedBy = &in.ActorID
		case in.ActorRole == role.SalesManager:
			if p.Status != domainPlan.StatusPendingSM {
				return &domainPlan.StateConflictError{Action: "approve", Current: p.Status,
					Allowed: []domainPlan.Status{domainPlan.StatusPendingSM}}
			}
			if p.Inputs.SalesDiscountPercent <= domainPlan.ConsultantMaxDiscountPercent {
				next = domainPlan.StatusApproved
				p.ApprovedBy = &in.ActorID
			} else {
				next = domainPlan.StatusPendingFM
			}
		case in.ActorRole == role.FinancialManager:
			if p.Status != domainPlan.StatusPendingSM && p.Status != domainPlan.StatusPendingFM {
				return &domainPlan.StateConflictError{Action: "approve", Current: p.Status,
					Allowed: []domainPlan.Status{domainPlan.StatusPendingSM, domainPlan.StatusPendingFM}}
			}
			un, err := r.Units.GetByID(ctx, d.UnitID)
			if err != nil {
				return err
			}
			limit, err := policyUC.ResolveLimit(ctx, r.Policies, un.ProjectID, un.UnitType)
			if err != nil {
				return err
			}
			if p.Inputs.SalesDiscountPercent <= limit {
				next = domainPlan.StatusApproved
			} else {
				next = domainPlan.StatusPendingTM
			}
			p.ApprovedBy = &in.ActorID
		default:
			return fmt.Errorf("approve as %s: %w", in.ActorRole, role.ErrForbidden)
		}

		from := p.Status
		p.Status = next
		p.StatusUpdatedAt = time.Now().UTC()
		if next == domainPlan.StatusApproved {
			if err := lockUnit(ctx, r, d.UnitID); err != nil {
				return err
			}
		}
		if err := r.Plans.Save(ctx, p); err != nil {
			return err
		}
		if err := r.History.AppendPlan(ctx, &history.PlanEntry{
			PaymentPlanID: p.ID,
			Action:        "approve",
			ActorID:       in.ActorID,
			ActorRole:     string(in.ActorRole),
			FromStatus:    string(from),
			ToStatus:      string(next),
		}); err != nil {
			return err
		}
		if next.Pending() {
			events = append(events, notify.Event{
				Type: "plan_escalated", RefTable: "payment_plans", RefID: p.ID,
				Message: fmt.Sprintf("plan %s v%d escalated to %s", p.PlanID, p.Version, next),
			})
		}
		dto = toDTO(p, d.DealID, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.dispatch(ctx, events)
	return dto, nil
}

// Reject finalizes a plan as rejected. A sales manager can only reject at
// their own tier; a financial manager (and superusers) can reject from any
// pending tier.
func (u *Usecase) Reject(ctx context.Context, in ActionInput) (*PlanDTO, error) {
	var dto *PlanDTO
	err := u.uow.WithinPlanTx(ctx, in.PlanID, func(r uow.Repos, p *domainPlan.PaymentPlan) error {
		switch {
		case in.ActorRole == role.SalesManager:
			if p.Status != domainPlan.StatusPendingSM {
				return &domainPlan.StateConflictError{Action: "reject", Current: p.Status,
					Allowed: []domainPlan.Status{domainPlan.StatusPendingSM}}
			}
		case in.ActorRole == role.FinancialManager, in.ActorRole.Superuser():
			if !p.Status.Pending() {
				return &domainPlan.StateConflictError{Action: "reject", Current: p.Status,
					Allowed: []domainPlan.Status{domainPlan.StatusPendingSM, domainPlan.StatusPendingFM, domainPlan.StatusPendingTM}}
			}
		default:
			return fmt.Errorf("reject as %s: %w", in.ActorRole, role.ErrForbidden)
		}

		d, err := r.Deals.GetByID(ctx, p.DealID)
		if err != nil {
			return err
		}
		from := p.Status
		p.Status = domainPlan.StatusRejected
		p.StatusUpdatedAt = time.Now().UTC()
		if err := r.Plans.Save(ctx, p); err != nil {
			return err
		}
		if err := r.History.AppendPlan(ctx, &history.PlanEntry{
			PaymentPlanID: p.ID,
			Action:        "reject",
			ActorID:       in.ActorID,
			ActorRole:     string(in.ActorRole),
			FromStatus:    string(from),
			ToStatus:      string(domainPlan.StatusRejected),
			Reason:        in.Reason,
		}); err != nil {
			return err
		}
		dto = toDTO(p, d.DealID, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// CastVote records or overwrites a top-management vote and re-evaluates the
// quorum over the full vote set. One reject vote finalizes rejection even
// when approve votes exist.
func (u *Usecase) CastVote(ctx context.Context, in VoteInput) (*PlanDTO, error) {
	if !in.ActorRole.TopManagement() && !in.ActorRole.Superuser() {
		return nil, fmt.Errorf("vote as %s: %w", in.ActorRole, role.ErrForbidden)
	}
	if in.Decision != domainPlan.VoteApprove && in.Decision != domainPlan.VoteReject {
		return nil, fmt.Errorf("%w: unknown vote decision %q", domainPlan.ErrInvalidInput, in.Decision)
	}

	var dto *PlanDTO
	err := u.uow.WithinPlanTx(ctx, in.PlanID, func(r uow.Repos, p *domainPlan.PaymentPlan) error {
		if p.Status != domainPlan.StatusPendingTM {
			return &domainPlan.StateConflictError{Action: "vote", Current: p.Status,
				Allowed: []domainPlan.Status{domainPlan.StatusPendingTM}}
		}
		d, err := r.Deals.GetByID(ctx, p.DealID)
		if err != nil {
			return err
		}

		if err := r.Votes.Upsert(ctx, &domainPlan.TMVote{
			PaymentPlanID: p.ID,
			ApproverID:    in.ActorID,
			Decision:      in.Decision,
		}); err != nil {
			return err
		}
		votes, err := r.Votes.ListByPlanID(ctx, p.ID)
		if err != nil {
			return err
		}

		from := p.Status
		next := domainPlan.TallyVotes(votes)
		if next != from {
			p.Status = next
			p.StatusUpdatedAt = time.Now().UTC()
			if next == domainPlan.StatusApproved {
				p.ApprovedBy = &in.ActorID
				if err := lockUnit(ctx, r, d.UnitID); err != nil {
					return err
				}
			}
			if err := r.Plans.Save(ctx, p); err != nil {
				return err
			}
		}
		reason := string(in.Decision)
		if err := r.History.AppendPlan(ctx, &history.PlanEntry{
			PaymentPlanID: p.ID,
			Action:        "tm_vote",
			ActorID:       in.ActorID,
			ActorRole:     string(in.ActorRole),
			FromStatus:    string(from),
			ToStatus:      string(next),
			Reason:        &reason,
		}); err != nil {
			return err
		}
		dto = toDTO(p, d.DealID, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// NewVersion clones a plan's inputs into the next version for its deal and
// restarts routing at the first tier. The source plan is never mutated.
func (u *Usecase) NewVersion(ctx context.Context, in ActionInput) (*PlanDTO, error) {
	switch {
	case in.ActorRole == role.PropertyConsultant,
		in.ActorRole == role.SalesManager,
		in.ActorRole == role.FinancialManager,
		in.ActorRole.Superuser():
	default:
		return nil, fmt.Errorf("new version as %s: %w", in.ActorRole, role.ErrForbidden)
	}

	var dto *PlanDTO
	err := u.uow.WithinPlanTx(ctx, in.PlanID, func(r uow.Repos, src *domainPlan.PaymentPlan) error {
		d, err := r.Deals.GetByID(ctx, src.DealID)
		if err != nil {
			return err
		}
		version, err := r.Plans.NextVersion(ctx, src.DealID)
		if err != nil {
			return err
		}
		next := &domainPlan.PaymentPlan{
			PlanID:          id.NewID32(),
			DealID:          src.DealID,
			Version:         version,
			SupersedesID:    &src.ID,
			Inputs:          src.Inputs,
			Status:          domainPlan.StatusPendingSM,
			CreatedBy:       in.ActorID,
			StatusUpdatedAt: time.Now().UTC(),
		}
		if err := r.Plans.Create(ctx, next); err != nil {
			return err
		}
		if err := r.History.AppendPlan(ctx, &history.PlanEntry{
			PaymentPlanID: next.ID,
			Action:        "new_version",
			ActorID:       in.ActorID,
			ActorRole:     string(in.ActorRole),
			FromStatus:    "",
			ToStatus:      string(domainPlan.StatusPendingSM),
			Reason:        in.Reason,
		}); err != nil {
			return err
		}
		dto = toDTO(next, d.DealID, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// MarkAccepted flips the accepted flag on an approved plan. The unique index
// on accepted_deal_id is the real guard; a concurrent winner surfaces here as
// ErrAlreadyAccepted with the loser's transaction fully rolled back.
func (u *Usecase) MarkAccepted(ctx context.Context, in ActionInput) (*PlanDTO, error) {
	switch {
	case in.ActorRole == role.FinancialManager,
		in.ActorRole.TopManagement(),
		in.ActorRole.Superuser():
	default:
		return nil, fmt.Errorf("mark accepted as %s: %w", in.ActorRole, role.ErrForbidden)
	}

	var dto *PlanDTO
	err := u.uow.WithinPlanTx(ctx, in.PlanID, func(r uow.Repos, p *domainPlan.PaymentPlan) error {
		if p.Status != domainPlan.StatusApproved {
			return &domainPlan.StateConflictError{Action: "mark_accepted", Current: p.Status,
				Allowed: []domainPlan.Status{domainPlan.StatusApproved}}
		}
		d, err := r.Deals.GetByID(ctx, p.DealID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		p.Accepted = true
		p.AcceptedAt = &now
		p.AcceptedDealID = &p.DealID
		if err := r.Plans.Save(ctx, p); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domainPlan.ErrAlreadyAccepted
			}
			return err
		}
		if err := r.History.AppendPlan(ctx, &history.PlanEntry{
			PaymentPlanID: p.ID,
			Action:        "mark_accepted",
			ActorID:       in.ActorID,
			ActorRole:     string(in.ActorRole),
			FromStatus:    string(domainPlan.StatusApproved),
			ToStatus:      string(domainPlan.StatusApproved),
		}); err != nil {
			return err
		}
		dto = toDTO(p, d.DealID, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, planID string) (*PlanDTO, error) {
	p, err := u.plans.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}
	d, err := u.deals.GetByID(ctx, p.DealID)
	if err != nil {
		return nil, err
	}
	return toDTO(p, d.DealID, nil), nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) ([]PlanDTO, error) {
	f := domainPlan.ListFilter{Status: in.Status, CreatedBy: in.CreatedBy}
	var dealPublic string
	if in.DealID != "" {
		d, err := u.deals.GetByDealID(ctx, in.DealID)
		if err != nil {
			return nil, err
		}
		f.DealID = d.ID
		dealPublic = d.DealID
	}
	plans, err := u.plans.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]PlanDTO, 0, len(plans))
	for i := range plans {
		publicID := dealPublic
		if publicID == "" {
			d, err := u.deals.GetByID(ctx, plans[i].DealID)
			if err != nil {
				return nil, err
			}
			publicID = d.DealID
		}
		out = append(out, *toDTO(&plans[i], publicID, nil))
	}
	return out, nil
}

// History returns the plan's ledger entries, oldest first.
func (u *Usecase) History(ctx context.Context, planID string) ([]history.PlanEntry, error) {
	p, err := u.plans.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}
	var entries []history.PlanEntry
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		entries, err = r.History.ListByPlanID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func lockUnit(ctx context.Context, r uow.Repos, unitID uint64) error {
	un, err := r.Units.GetByIDForUpdate(ctx, unitID)
	if err != nil {
		return err
	}
	if !un.Available {
		return unit.ErrUnavailable
	}
	return r.Units.SetAvailability(ctx, un.ID, false)
}

func failedConditions(ev calc.Evaluation) string {
	out := ""
	for _, c := range ev.Conditions {
		if c.Pass {
			continue
		}
		if out != "" {
			out += "; "
		}
		required := c.Standard
		if c.Threshold > 0 {
			required = c.Threshold
		}
		out += fmt.Sprintf("%s: proposal %.2f vs required %.2f", c.Key, c.Proposal, required)
	}
	if out == "" {
		return "evaluation flagged the proposal"
	}
	return out
}

func (u *Usecase) dispatch(ctx context.Context, events []notify.Event) {
	for _, ev := range events {
		u.notifier.Notify(ctx, ev)
	}
}

func toDTO(p *domainPlan.PaymentPlan, dealPublicID string, ev *calc.Evaluation) *PlanDTO {
	return &PlanDTO{
		PlanID:          p.PlanID,
		DealID:          dealPublicID,
		Version:         p.Version,
		SupersedesID:    p.SupersedesID,
		Inputs:          p.Inputs,
		Status:          p.Status,
		Accepted:        p.Accepted,
		AcceptedAt:      p.AcceptedAt,
		CreatedBy:       p.CreatedBy,
		ApprovedBy:      p.ApprovedBy,
		Evaluation:      ev,
		StatusUpdatedAt: p.StatusUpdatedAt,
		CreatedAt:       p.CreatedAt,
	}
}
