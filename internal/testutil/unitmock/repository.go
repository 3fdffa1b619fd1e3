package unitmock

import (
	"context"
	"errors"

	domain "estate-backoffice/internal/domain/unit"
)

var errUnimplemented = errors.New("unitmock: method not implemented")

// Repo is a function-backed mock that satisfies unit.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, u *domain.Unit) error
	SaveFn             func(ctx context.Context, u *domain.Unit) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Unit, error)
	GetByUnitIDFn      func(ctx context.Context, unitID string) (*domain.Unit, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Unit, error)
	SetAvailabilityFn  func(ctx context.Context, id uint64, available bool) error
}

func (m *Repo) Create(ctx context.Context, u *domain.Unit) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, u *domain.Unit) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Unit, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByUnitID(ctx context.Context, unitID string) (*domain.Unit, error) {
	if m.GetByUnitIDFn != nil {
		return m.GetByUnitIDFn(ctx, unitID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Unit, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) SetAvailability(ctx context.Context, id uint64, available bool) error {
	if m.SetAvailabilityFn != nil {
		return m.SetAvailabilityFn(ctx, id, available)
	}
	return nil
}
