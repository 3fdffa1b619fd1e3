package deal

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("deal not found")

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Deal is the aggregate a payment plan belongs to. NeedsOverride is
// orthogonal to Status: a flagged deal keeps routing through the approval
// tiers, the flag only marks that the evaluation said reject and an
// executive sign-off is wanted. Override approval data and the flag are
// independent fields; approving an override records who/when/notes but does
// not clear the flag.
type Deal struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	DealID   string `gorm:"size:32;uniqueIndex:ux_deals_deal_id" json:"deal_id"`
	Title    string `gorm:"size:255" json:"title"`
	UnitID   uint64 `gorm:"index" json:"-"`
	Status   Status `gorm:"type:enum('draft','active','cancelled');default:'draft'" json:"status"`

	NeedsOverride       bool       `gorm:"default:false" json:"needs_override"`
	OverrideReason      *string    `gorm:"type:text" json:"override_reason,omitempty"`
	OverrideRequestedBy *string    `gorm:"size:32" json:"override_requested_by,omitempty"`
	OverrideRequestedAt *time.Time `json:"override_requested_at,omitempty"`
	OverrideApprovedBy  *string    `gorm:"size:32" json:"override_approved_by,omitempty"`
	OverrideApprovedAt  *time.Time `json:"override_approved_at,omitempty"`
	OverrideNotes       *string    `gorm:"type:text" json:"override_notes,omitempty"`

	CreatedBy string         `gorm:"size:32" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Deal) TableName() string { return "deals" }
