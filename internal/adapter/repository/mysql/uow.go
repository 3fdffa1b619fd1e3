package mysql

import (
	"context"

	"estate-backoffice/internal/domain/plan"
	"estate-backoffice/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func bind(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Plans:    &PlanRepository{db: tx},
		Votes:    &VoteRepository{db: tx},
		Deals:    &DealRepository{db: tx},
		Units:    &UnitRepository{db: tx},
		Policies: &PolicyRepository{db: tx},
		Blocks:   &BlockRepository{db: tx},
		History:  &HistoryRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(bind(tx))
	})
}

func (u *GormUoW) WithinPlanTx(ctx context.Context, planID string, fn func(r uow.Repos, p *plan.PaymentPlan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := bind(tx)
		// lock the plan row up-front so concurrent transitions serialize
		p, err := r.Plans.GetByPlanIDForUpdate(ctx, planID)
		if err != nil {
			return err
		}
		return fn(r, p)
	})
}
