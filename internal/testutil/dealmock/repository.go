package dealmock

import (
	"context"
	"errors"

	domain "estate-backoffice/internal/domain/deal"
)

var errUnimplemented = errors.New("dealmock: method not implemented")

// Repo is a function-backed mock that satisfies deal.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, d *domain.Deal) error
	SaveFn                 func(ctx context.Context, d *domain.Deal) error
	GetByDealIDFn          func(ctx context.Context, dealID string) (*domain.Deal, error)
	GetByDealIDForUpdateFn func(ctx context.Context, dealID string) (*domain.Deal, error)
	GetByIDFn              func(ctx context.Context, id uint64) (*domain.Deal, error)
	ListFn                 func(ctx context.Context, status domain.Status, limit, offset int) ([]domain.Deal, error)
}

func (m *Repo) Create(ctx context.Context, d *domain.Deal) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, d *domain.Deal) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByDealID(ctx context.Context, dealID string) (*domain.Deal, error) {
	if m.GetByDealIDFn != nil {
		return m.GetByDealIDFn(ctx, dealID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByDealIDForUpdate(ctx context.Context, dealID string) (*domain.Deal, error) {
	if m.GetByDealIDForUpdateFn != nil {
		return m.GetByDealIDForUpdateFn(ctx, dealID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Deal, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) List(ctx context.Context, status domain.Status, limit, offset int) ([]domain.Deal, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, status, limit, offset)
	}
	return nil, nil
}
