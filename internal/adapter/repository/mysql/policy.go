package mysql

import (
	"context"

	policyDomain "estate-backoffice/internal/domain/policy"

	"gorm.io/gorm"
)

type PolicyRepository struct{ db *gorm.DB }

func NewPolicyRepository(db *gorm.DB) *PolicyRepository { return &PolicyRepository{db: db} }

func (r *PolicyRepository) Create(ctx context.Context, p *policyDomain.ApprovalPolicy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PolicyRepository) List(ctx context.Context, activeOnly bool) ([]policyDomain.ApprovalPolicy, error) {
	q := r.db.WithContext(ctx).Model(&policyDomain.ApprovalPolicy{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var out []policyDomain.ApprovalPolicy
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, res.Error
}

// Duplicate active policies can exist within a scope; the newest one is the
// authoritative limit, so every lookup orders by creation descending.

func (r *PolicyRepository) ActiveByProject(ctx context.Context, projectID uint64) (*policyDomain.ApprovalPolicy, error) {
	var out policyDomain.ApprovalPolicy
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND active = ?", projectID, true).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, notFound(res.Error, policyDomain.ErrNotFound)
}

func (r *PolicyRepository) ActiveByUnitType(ctx context.Context, unitType string) (*policyDomain.ApprovalPolicy, error) {
	var out policyDomain.ApprovalPolicy
	res := r.db.WithContext(ctx).
		Where("unit_type = ? AND active = ?", unitType, true).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, notFound(res.Error, policyDomain.ErrNotFound)
}

func (r *PolicyRepository) ActiveGlobal(ctx context.Context) (*policyDomain.ApprovalPolicy, error) {
	var out policyDomain.ApprovalPolicy
	res := r.db.WithContext(ctx).
		Where("project_id IS NULL AND unit_type IS NULL AND active = ?", true).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, notFound(res.Error, policyDomain.ErrNotFound)
}
