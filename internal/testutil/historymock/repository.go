package historymock

import (
	"context"

	domain "estate-backoffice/internal/domain/history"
)

// Repo is a function-backed mock that satisfies history.Repository. The
// zero value swallows appends, which suits tests that only assert on the
// core transition.
type Repo struct {
	AppendPlanFn   func(ctx context.Context, e *domain.PlanEntry) error
	AppendDealFn   func(ctx context.Context, e *domain.DealEntry) error
	ListByPlanIDFn func(ctx context.Context, planID uint64) ([]domain.PlanEntry, error)
	ListByDealIDFn func(ctx context.Context, dealID uint64) ([]domain.DealEntry, error)
}

func (m *Repo) AppendPlan(ctx context.Context, e *domain.PlanEntry) error {
	if m.AppendPlanFn != nil {
		return m.AppendPlanFn(ctx, e)
	}
	return nil
}

func (m *Repo) AppendDeal(ctx context.Context, e *domain.DealEntry) error {
	if m.AppendDealFn != nil {
		return m.AppendDealFn(ctx, e)
	}
	return nil
}

func (m *Repo) ListByPlanID(ctx context.Context, planID uint64) ([]domain.PlanEntry, error) {
	if m.ListByPlanIDFn != nil {
		return m.ListByPlanIDFn(ctx, planID)
	}
	return nil, nil
}

func (m *Repo) ListByDealID(ctx context.Context, dealID uint64) ([]domain.DealEntry, error) {
	if m.ListByDealIDFn != nil {
		return m.ListByDealIDFn(ctx, dealID)
	}
	return nil, nil
}
