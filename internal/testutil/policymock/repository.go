package policymock

import (
	"context"

	domain "estate-backoffice/internal/domain/policy"
)

// Repo is a function-backed mock that satisfies policy.Repository. Unfilled
// lookup funcs behave like an empty policy table.
type Repo struct {
	CreateFn           func(ctx context.Context, p *domain.ApprovalPolicy) error
	ListFn             func(ctx context.Context, activeOnly bool) ([]domain.ApprovalPolicy, error)
	ActiveByProjectFn  func(ctx context.Context, projectID uint64) (*domain.ApprovalPolicy, error)
	ActiveByUnitTypeFn func(ctx context.Context, unitType string) (*domain.ApprovalPolicy, error)
	ActiveGlobalFn     func(ctx context.Context) (*domain.ApprovalPolicy, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.ApprovalPolicy) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, activeOnly bool) ([]domain.ApprovalPolicy, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, activeOnly)
	}
	return nil, nil
}

func (m *Repo) ActiveByProject(ctx context.Context, projectID uint64) (*domain.ApprovalPolicy, error) {
	if m.ActiveByProjectFn != nil {
		return m.ActiveByProjectFn(ctx, projectID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ActiveByUnitType(ctx context.Context, unitType string) (*domain.ApprovalPolicy, error) {
	if m.ActiveByUnitTypeFn != nil {
		return m.ActiveByUnitTypeFn(ctx, unitType)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ActiveGlobal(ctx context.Context) (*domain.ApprovalPolicy, error) {
	if m.ActiveGlobalFn != nil {
		return m.ActiveGlobalFn(ctx)
	}
	return nil, domain.ErrNotFound
}
