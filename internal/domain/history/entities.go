// Package history is the append-only ledger behind every workflow
// transition. One entry per mutation that actually happened; rejected
// attempts write nothing. Entries carry enough structure (actor, old and new
// state, reason) to reconstruct a decision without re-deriving it.
package history

import "time"

// PlanEntry records one payment-plan transition.
type PlanEntry struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	PaymentPlanID uint64    `gorm:"index:idx_plan_history_plan" json:"-"`
	Action        string    `gorm:"size:64" json:"action"`
	ActorID       string    `gorm:"size:32" json:"actor_id"`
	ActorRole     string    `gorm:"size:32" json:"actor_role"`
	FromStatus    string    `gorm:"size:32" json:"from_status"`
	ToStatus      string    `gorm:"size:32" json:"to_status"`
	Reason        *string   `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PlanEntry) TableName() string { return "payment_plan_history" }

// DealEntry records one deal-level action (creation, override flagging and
// decisions).
type DealEntry struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	DealID    uint64    `gorm:"index:idx_deal_history_deal" json:"-"`
	Action    string    `gorm:"size:64" json:"action"`
	ActorID   string    `gorm:"size:32" json:"actor_id"`
	ActorRole string    `gorm:"size:32" json:"actor_role"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DealEntry) TableName() string { return "deal_history" }
