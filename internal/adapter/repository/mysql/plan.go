package mysql

import (
	"context"
	"errors"

	planDomain "estate-backoffice/internal/domain/plan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlanRepository struct{ db *gorm.DB }

func NewPlanRepository(db *gorm.DB) *PlanRepository { return &PlanRepository{db: db} }

func (r *PlanRepository) Create(ctx context.Context, p *planDomain.PaymentPlan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PlanRepository) Save(ctx context.Context, p *planDomain.PaymentPlan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PlanRepository) GetByPlanID(ctx context.Context, planID string) (*planDomain.PaymentPlan, error) {
	var out planDomain.PaymentPlan
	res := r.db.WithContext(ctx).Where("plan_id = ?", planID).First(&out)
	return &out, notFound(res.Error, planDomain.ErrNotFound)
}

func (r *PlanRepository) GetByPlanIDForUpdate(ctx context.Context, planID string) (*planDomain.PaymentPlan, error) {
	var out planDomain.PaymentPlan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("plan_id = ?", planID).
		First(&out)
	return &out, notFound(res.Error, planDomain.ErrNotFound)
}

func (r *PlanRepository) List(ctx context.Context, f planDomain.ListFilter) ([]planDomain.PaymentPlan, error) {
	q := r.db.WithContext(ctx).Model(&planDomain.PaymentPlan{})
	if f.DealID != 0 {
		q = q.Where("deal_id = ?", f.DealID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CreatedBy != "" {
		q = q.Where("created_by = ?", f.CreatedBy)
	}
	var out []planDomain.PaymentPlan
	res := q.Order("deal_id ASC, version ASC").Find(&out)
	return out, res.Error
}

func (r *PlanRepository) NextVersion(ctx context.Context, dealID uint64) (int, error) {
	var next int
	res := r.db.WithContext(ctx).
		Model(&planDomain.PaymentPlan{}).
		Unscoped().
		Where("deal_id = ?", dealID).
		Select("COALESCE(MAX(version), 0) + 1").
		Scan(&next)
	return next, res.Error
}

type VoteRepository struct{ db *gorm.DB }

func NewVoteRepository(db *gorm.DB) *VoteRepository { return &VoteRepository{db: db} }

// Upsert relies on the (payment_plan_id, approver_id) unique index so a
// re-vote replaces the decision instead of inserting a second row.
func (r *VoteRepository) Upsert(ctx context.Context, v *planDomain.TMVote) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_plan_id"}, {Name: "approver_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"decision", "updated_at"}),
		}).
		Create(v).Error
}

func (r *VoteRepository) ListByPlanID(ctx context.Context, planID uint64) ([]planDomain.TMVote, error) {
	var out []planDomain.TMVote
	res := r.db.WithContext(ctx).
		Where("payment_plan_id = ?", planID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

// notFound maps gorm's record-not-found onto the domain sentinel so callers
// never import gorm to branch on it.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
