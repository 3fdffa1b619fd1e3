package block

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, b *Block) error
	Save(ctx context.Context, b *Block) error
	GetByBlockID(ctx context.Context, blockID string) (*Block, error)
	GetByBlockIDForUpdate(ctx context.Context, blockID string) (*Block, error)
	// ActiveByUnitID returns a pending or approved, unexpired block for the
	// unit, or ErrNotFound.
	ActiveByUnitID(ctx context.Context, unitID uint64, now time.Time) (*Block, error)
	// ListCurrent lists approved, unexpired blocks; requestedBy narrows to
	// one consultant's holds when non-empty.
	ListCurrent(ctx context.Context, now time.Time, requestedBy string) ([]Block, error)
	// ListDue selects approved blocks whose lock period has elapsed. The
	// predicate makes the expiry sweep idempotent: rows already moved on by
	// a manual action never match.
	ListDue(ctx context.Context, now time.Time) ([]Block, error)
}
