package mysql

import (
	"context"

	unitDomain "estate-backoffice/internal/domain/unit"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnitRepository struct{ db *gorm.DB }

func NewUnitRepository(db *gorm.DB) *UnitRepository { return &UnitRepository{db: db} }

func (r *UnitRepository) Create(ctx context.Context, u *unitDomain.Unit) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UnitRepository) Save(ctx context.Context, u *unitDomain.Unit) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UnitRepository) GetByID(ctx context.Context, id uint64) (*unitDomain.Unit, error) {
	var out unitDomain.Unit
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, notFound(res.Error, unitDomain.ErrNotFound)
}

func (r *UnitRepository) GetByUnitID(ctx context.Context, unitID string) (*unitDomain.Unit, error) {
	var out unitDomain.Unit
	res := r.db.WithContext(ctx).Where("unit_id = ?", unitID).First(&out)
	return &out, notFound(res.Error, unitDomain.ErrNotFound)
}

func (r *UnitRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*unitDomain.Unit, error) {
	var out unitDomain.Unit
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, notFound(res.Error, unitDomain.ErrNotFound)
}

func (r *UnitRepository) SetAvailability(ctx context.Context, id uint64, available bool) error {
	return r.db.WithContext(ctx).
		Model(&unitDomain.Unit{}).
		Where("id = ?", id).
		Update("available", available).Error
}
