package deal

import "context"

type Repository interface {
	Create(ctx context.Context, d *Deal) error
	Save(ctx context.Context, d *Deal) error
	GetByDealID(ctx context.Context, dealID string) (*Deal, error)
	GetByDealIDForUpdate(ctx context.Context, dealID string) (*Deal, error)
	GetByID(ctx context.Context, id uint64) (*Deal, error)
	List(ctx context.Context, status Status, limit, offset int) ([]Deal, error)
}
