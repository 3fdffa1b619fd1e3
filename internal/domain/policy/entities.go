package policy

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("approval policy not found")
	ErrInvalidScope = errors.New("invalid policy scope")
)

// DefaultLimitPercent is the hard fallback when no active policy exists at
// any scope.
const DefaultLimitPercent = 5.0

type ScopeType string

const (
	ScopeProject  ScopeType = "project"
	ScopeUnitType ScopeType = "unit_type"
	ScopeGlobal   ScopeType = "global"
)

// ApprovalPolicy caps the sales discount a financial manager may approve
// without escalating. Exactly one of ProjectID/UnitType is set for scoped
// policies; both are nil for the global one. When duplicates exist within a
// scope the most recently created active policy wins.
type ApprovalPolicy struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	PolicyID     string         `gorm:"size:32;uniqueIndex:ux_approval_policies_policy_id" json:"policy_id"`
	ProjectID    *uint64        `gorm:"index" json:"project_id,omitempty"`
	UnitType     *string        `gorm:"size:64;index" json:"unit_type,omitempty"`
	LimitPercent float64        `gorm:"type:decimal(6,3)" json:"limit_percent"`
	Active       bool           `gorm:"default:true;index" json:"active"`
	CreatedBy    string         `gorm:"size:32" json:"created_by"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ApprovalPolicy) TableName() string { return "approval_policies" }

func (p *ApprovalPolicy) Scope() ScopeType {
	switch {
	case p.ProjectID != nil:
		return ScopeProject
	case p.UnitType != nil:
		return ScopeUnitType
	}
	return ScopeGlobal
}
