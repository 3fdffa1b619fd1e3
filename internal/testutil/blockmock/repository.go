package blockmock

import (
	"context"
	"errors"
	"time"

	domain "estate-backoffice/internal/domain/block"
)

var errUnimplemented = errors.New("blockmock: method not implemented")

// Repo is a function-backed mock that satisfies block.Repository.
type Repo struct {
	CreateFn                func(ctx context.Context, b *domain.Block) error
	SaveFn                  func(ctx context.Context, b *domain.Block) error
	GetByBlockIDFn          func(ctx context.Context, blockID string) (*domain.Block, error)
	GetByBlockIDForUpdateFn func(ctx context.Context, blockID string) (*domain.Block, error)
	ActiveByUnitIDFn        func(ctx context.Context, unitID uint64, now time.Time) (*domain.Block, error)
	ListCurrentFn           func(ctx context.Context, now time.Time, requestedBy string) ([]domain.Block, error)
	ListDueFn               func(ctx context.Context, now time.Time) ([]domain.Block, error)
}

func (m *Repo) Create(ctx context.Context, b *domain.Block) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, b *domain.Block) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByBlockID(ctx context.Context, blockID string) (*domain.Block, error) {
	if m.GetByBlockIDFn != nil {
		return m.GetByBlockIDFn(ctx, blockID)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByBlockIDForUpdate(ctx context.Context, blockID string) (*domain.Block, error) {
	if m.GetByBlockIDForUpdateFn != nil {
		return m.GetByBlockIDForUpdateFn(ctx, blockID)
	}
	return nil, errUnimplemented
}

func (m *Repo) ActiveByUnitID(ctx context.Context, unitID uint64, now time.Time) (*domain.Block, error) {
	if m.ActiveByUnitIDFn != nil {
		return m.ActiveByUnitIDFn(ctx, unitID, now)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListCurrent(ctx context.Context, now time.Time, requestedBy string) ([]domain.Block, error) {
	if m.ListCurrentFn != nil {
		return m.ListCurrentFn(ctx, now, requestedBy)
	}
	return nil, nil
}

func (m *Repo) ListDue(ctx context.Context, now time.Time) ([]domain.Block, error) {
	if m.ListDueFn != nil {
		return m.ListDueFn(ctx, now)
	}
	return nil, nil
}
