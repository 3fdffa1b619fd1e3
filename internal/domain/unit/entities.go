package unit

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"estate-backoffice/internal/calc"
)

var (
	ErrNotFound    = errors.New("unit not found")
	ErrUnavailable = errors.New("unit is not available")
)

// Unit is an inventory unit with its approved standard pricing components
// and the standard plan terms proposals are benchmarked against. Available
// mirrors the latest terminal state of the unit's active plan or hold: an
// approved plan or block locks it, cancellation and expiry release it.
type Unit struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"-"`
	UnitID    string `gorm:"size:32;uniqueIndex:ux_units_unit_id" json:"unit_id"`
	Code      string `gorm:"size:64;index" json:"code"`
	UnitType  string `gorm:"size:64;index" json:"unit_type"`
	ProjectID uint64 `gorm:"index" json:"project_id"`
	Available bool   `gorm:"default:true" json:"available"`

	Price            float64 `gorm:"type:decimal(18,2)" json:"price"`
	MaintenancePrice float64 `gorm:"type:decimal(18,2)" json:"maintenance_price"`
	GaragePrice      float64 `gorm:"type:decimal(18,2)" json:"garage_price"`
	GardenPrice      float64 `gorm:"type:decimal(18,2)" json:"garden_price"`
	RoofPrice        float64 `gorm:"type:decimal(18,2)" json:"roof_price"`
	StoragePrice     float64 `gorm:"type:decimal(18,2)" json:"storage_price"`

	PlanDurationYears       int            `json:"plan_duration_years"`
	InstallmentFrequency    calc.Frequency `gorm:"size:16" json:"installment_frequency"`
	StdFinancialRatePercent float64        `gorm:"type:decimal(6,3)" json:"std_financial_rate_percent"`
	NPVTolerancePercent     float64        `gorm:"type:decimal(6,3)" json:"npv_tolerance_percent"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Unit) TableName() string { return "units" }

func (u *Unit) Pricing() calc.UnitPricing {
	return calc.UnitPricing{
		Base:        u.Price,
		Maintenance: u.MaintenancePrice,
		Garage:      u.GaragePrice,
		Garden:      u.GardenPrice,
		Roof:        u.RoofPrice,
		Storage:     u.StoragePrice,
	}
}

func (u *Unit) StandardPlan() calc.StandardPlan {
	return calc.StandardPlan{
		PlanDurationYears:    u.PlanDurationYears,
		InstallmentFrequency: u.InstallmentFrequency,
		RatePercent:          u.StdFinancialRatePercent,
		NPVTolerancePercent:  u.NPVTolerancePercent,
	}
}
