package mysql

import (
	"context"
	"time"

	blockDomain "estate-backoffice/internal/domain/block"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlockRepository struct{ db *gorm.DB }

func NewBlockRepository(db *gorm.DB) *BlockRepository { return &BlockRepository{db: db} }

func (r *BlockRepository) Create(ctx context.Context, b *blockDomain.Block) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BlockRepository) Save(ctx context.Context, b *blockDomain.Block) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BlockRepository) GetByBlockID(ctx context.Context, blockID string) (*blockDomain.Block, error) {
	var out blockDomain.Block
	res := r.db.WithContext(ctx).Where("block_id = ?", blockID).First(&out)
	return &out, notFound(res.Error, blockDomain.ErrNotFound)
}

func (r *BlockRepository) GetByBlockIDForUpdate(ctx context.Context, blockID string) (*blockDomain.Block, error) {
	var out blockDomain.Block
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("block_id = ?", blockID).
		First(&out)
	return &out, notFound(res.Error, blockDomain.ErrNotFound)
}

func (r *BlockRepository) ActiveByUnitID(ctx context.Context, unitID uint64, now time.Time) (*blockDomain.Block, error) {
	var out blockDomain.Block
	res := r.db.WithContext(ctx).
		Where("unit_id = ? AND status IN ? AND blocked_until > ?",
			unitID, []blockDomain.Status{blockDomain.StatusPending, blockDomain.StatusApproved}, now).
		Order("id DESC").
		First(&out)
	return &out, notFound(res.Error, blockDomain.ErrNotFound)
}

func (r *BlockRepository) ListCurrent(ctx context.Context, now time.Time, requestedBy string) ([]blockDomain.Block, error) {
	q := r.db.WithContext(ctx).
		Where("status = ? AND blocked_until > ?", blockDomain.StatusApproved, now)
	if requestedBy != "" {
		q = q.Where("requested_by = ?", requestedBy)
	}
	var out []blockDomain.Block
	res := q.Order("blocked_until ASC").Find(&out)
	return out, res.Error
}

func (r *BlockRepository) ListDue(ctx context.Context, now time.Time) ([]blockDomain.Block, error) {
	var out []blockDomain.Block
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status = ? AND blocked_until <= ?", blockDomain.StatusApproved, now).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
