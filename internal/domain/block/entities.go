package block

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("block not found")
	ErrUnitNotAvailable = errors.New("unit is not available for blocking")
	ErrAlreadyBlocked = errors.New("unit is already blocked")
	// Policy caps on the hold lifecycle; violating either leaves the block
	// untouched.
	ErrExtensionLimit = errors.New("maximum extensions reached")
	ErrDurationLimit  = errors.New("maximum block duration exceeded")
)

const (
	MaxExtensions       = 3
	MaxTotalDurationDays = 28
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Block is a temporary hold on a unit requested by a consultant and granted
// by a financial manager. An approved block locks the unit until
// BlockedUntil; the expiry sweep releases it.
type Block struct {
	ID           uint64  `gorm:"primaryKey;column:id" json:"-"`
	BlockID      string  `gorm:"size:32;uniqueIndex:ux_blocks_block_id" json:"block_id"`
	UnitID       uint64  `gorm:"index" json:"-"`
	RequestedBy  string  `gorm:"size:32" json:"requested_by"`
	DurationDays int     `json:"duration_days"`
	Reason       *string `gorm:"type:text" json:"reason,omitempty"`
	Status       Status  `gorm:"type:enum('pending','approved','rejected','expired');default:'pending'" json:"status"`

	BlockedUntil time.Time `json:"blocked_until"`

	ExtensionCount      int        `gorm:"default:0" json:"extension_count"`
	ExtendedDays        int        `gorm:"default:0" json:"extended_days"`
	LastExtensionReason *string    `gorm:"type:text" json:"last_extension_reason,omitempty"`
	LastExtendedBy      *string    `gorm:"size:32" json:"last_extended_by,omitempty"`
	LastExtendedAt      *time.Time `json:"last_extended_at,omitempty"`

	ApprovedBy      *string    `gorm:"size:32" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ApprovalReason  *string    `gorm:"type:text" json:"approval_reason,omitempty"`
	RejectedBy      *string    `gorm:"size:32" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Block) TableName() string { return "blocks" }

// TotalDurationDays is the granted duration including every extension.
func (b *Block) TotalDurationDays() int { return b.DurationDays + b.ExtendedDays }
