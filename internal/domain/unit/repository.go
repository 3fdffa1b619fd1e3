package unit

import "context"

type Repository interface {
	Create(ctx context.Context, u *Unit) error
	Save(ctx context.Context, u *Unit) error
	GetByID(ctx context.Context, id uint64) (*Unit, error)
	GetByUnitID(ctx context.Context, unitID string) (*Unit, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Unit, error)
	// SetAvailability is the inventory lock bridge: it flips the unit in the
	// same transaction as the transition that requires it.
	SetAvailability(ctx context.Context, id uint64, available bool) error
}
