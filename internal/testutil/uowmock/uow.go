package uowmock

import (
	"context"

	"estate-backoffice/internal/domain/plan"
	"estate-backoffice/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

// UoW is a function-backed mock that satisfies uow.UnitOfWork. By default it
// is a pass-through: WithinTx runs fn against Repos directly and
// WithinPlanTx loads the plan through Repos.Plans, so usecase tests exercise
// the real transition logic against mocked repositories with no database.
type UoW struct {
	Repos uow.Repos

	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPlanTxFn func(ctx context.Context, planID string, fn func(r uow.Repos, p *plan.PaymentPlan) error) error
}

func New(r uow.Repos) *UoW { return &UoW{Repos: r} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return fn(m.Repos)
}

func (m *UoW) WithinPlanTx(ctx context.Context, planID string, fn func(r uow.Repos, p *plan.PaymentPlan) error) error {
	if m.WithinPlanTxFn != nil {
		return m.WithinPlanTxFn(ctx, planID, fn)
	}
	p, err := m.Repos.Plans.GetByPlanIDForUpdate(ctx, planID)
	if err != nil {
		return err
	}
	return fn(m.Repos, p)
}
