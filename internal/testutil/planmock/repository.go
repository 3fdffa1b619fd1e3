package planmock

import (
	"context"
	"errors"

	domain "estate-backoffice/internal/domain/plan"
)

var errUnimplemented = errors.New("planmock: method not implemented")

// Repo is a function-backed mock that satisfies plan.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn               func(ctx context.Context, p *domain.PaymentPlan) error
	SaveFn                 func(ctx context.Context, p *domain.PaymentPlan) error
	GetByPlanIDFn          func(ctx context.Context, planID string) (*domain.PaymentPlan, error)
	GetByPlanIDForUpdateFn func(ctx context.Context, planID string) (*domain.PaymentPlan, error)
	ListFn                 func(ctx context.Context, f domain.ListFilter) ([]domain.PaymentPlan, error)
	NextVersionFn          func(ctx context.Context, dealID uint64) (int, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.PaymentPlan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, p *domain.PaymentPlan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByPlanID(ctx context.Context, planID string) (*domain.PaymentPlan, error) {
	if m.GetByPlanIDFn != nil {
		return m.GetByPlanIDFn(ctx, planID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByPlanIDForUpdate(ctx context.Context, planID string) (*domain.PaymentPlan, error) {
	if m.GetByPlanIDForUpdateFn != nil {
		return m.GetByPlanIDForUpdateFn(ctx, planID)
	}
	return nil, errUnimplemented
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.PaymentPlan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) NextVersion(ctx context.Context, dealID uint64) (int, error) {
	if m.NextVersionFn != nil {
		return m.NextVersionFn(ctx, dealID)
	}
	return 1, nil
}

// VoteRepo is a function-backed mock that satisfies plan.VoteRepository.
type VoteRepo struct {
	UpsertFn       func(ctx context.Context, v *domain.TMVote) error
	ListByPlanIDFn func(ctx context.Context, planID uint64) ([]domain.TMVote, error)
}

func (m *VoteRepo) Upsert(ctx context.Context, v *domain.TMVote) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, v)
	}
	return nil
}

func (m *VoteRepo) ListByPlanID(ctx context.Context, planID uint64) ([]domain.TMVote, error) {
	if m.ListByPlanIDFn != nil {
		return m.ListByPlanIDFn(ctx, planID)
	}
	return nil, nil
}
