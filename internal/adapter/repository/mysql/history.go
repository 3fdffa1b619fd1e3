package mysql

import (
	"context"

	historyDomain "estate-backoffice/internal/domain/history"

	"gorm.io/gorm"
)

type HistoryRepository struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) *HistoryRepository { return &HistoryRepository{db: db} }

func (r *HistoryRepository) AppendPlan(ctx context.Context, e *historyDomain.PlanEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *HistoryRepository) AppendDeal(ctx context.Context, e *historyDomain.DealEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *HistoryRepository) ListByPlanID(ctx context.Context, planID uint64) ([]historyDomain.PlanEntry, error) {
	var out []historyDomain.PlanEntry
	res := r.db.WithContext(ctx).
		Where("payment_plan_id = ?", planID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *HistoryRepository) ListByDealID(ctx context.Context, dealID uint64) ([]historyDomain.DealEntry, error) {
	var out []historyDomain.DealEntry
	res := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
