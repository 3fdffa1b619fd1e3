package mysql

import (
	"context"

	dealDomain "estate-backoffice/internal/domain/deal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DealRepository struct{ db *gorm.DB }

func NewDealRepository(db *gorm.DB) *DealRepository { return &DealRepository{db: db} }

func (r *DealRepository) Create(ctx context.Context, d *dealDomain.Deal) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DealRepository) Save(ctx context.Context, d *dealDomain.Deal) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DealRepository) GetByDealID(ctx context.Context, dealID string) (*dealDomain.Deal, error) {
	var out dealDomain.Deal
	res := r.db.WithContext(ctx).Where("deal_id = ?", dealID).First(&out)
	return &out, notFound(res.Error, dealDomain.ErrNotFound)
}

func (r *DealRepository) GetByDealIDForUpdate(ctx context.Context, dealID string) (*dealDomain.Deal, error) {
	var out dealDomain.Deal
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("deal_id = ?", dealID).
		First(&out)
	return &out, notFound(res.Error, dealDomain.ErrNotFound)
}

func (r *DealRepository) GetByID(ctx context.Context, id uint64) (*dealDomain.Deal, error) {
	var out dealDomain.Deal
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, notFound(res.Error, dealDomain.ErrNotFound)
}

func (r *DealRepository) List(ctx context.Context, status dealDomain.Status, limit, offset int) ([]dealDomain.Deal, error) {
	q := r.db.WithContext(ctx).Model(&dealDomain.Deal{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var out []dealDomain.Deal
	res := q.Order("id DESC").Find(&out)
	return out, res.Error
}
