package plan

import (
	"time"

	"gorm.io/gorm"

	"estate-backoffice/internal/calc"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPendingSM Status = "pending_sm"
	StatusPendingFM Status = "pending_fm"
	StatusPendingTM Status = "pending_tm"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

func (s Status) Pending() bool {
	return s == StatusPendingSM || s == StatusPendingFM || s == StatusPendingTM
}

// ConsultantMaxDiscountPercent is the fixed threshold up to which a sales
// manager may approve directly; anything above escalates to the financial
// tier.
const ConsultantMaxDiscountPercent = 2.0

// PaymentPlan is one submission attempt of an installment structure for a
// deal. Inputs are frozen at creation; all later changes go through status
// transitions or a new version. AcceptedDealID mirrors DealID only while the
// plan is the accepted one, so the unique index makes "one accepted plan per
// deal" hold even under concurrent markAccepted calls.
type PaymentPlan struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	PlanID         string         `gorm:"size:32;uniqueIndex:ux_payment_plans_plan_id" json:"plan_id"`
	DealID         uint64         `gorm:"index:idx_payment_plans_deal;uniqueIndex:ux_payment_plans_deal_version" json:"-"`
	Version        int            `gorm:"default:1;uniqueIndex:ux_payment_plans_deal_version" json:"version"`
	SupersedesID   *uint64        `gorm:"column:supersedes_id" json:"supersedes_id,omitempty"`
	Inputs         calc.Proposal  `gorm:"serializer:json;type:json" json:"inputs"`
	Status         Status         `gorm:"type:enum('draft','pending_sm','pending_fm','pending_tm','approved','rejected');default:'draft'" json:"status"`
	Accepted       bool           `gorm:"default:false" json:"accepted"`
	AcceptedDealID *uint64        `gorm:"uniqueIndex:ux_payment_plans_one_accepted_per_deal" json:"-"`
	AcceptedAt     *time.Time     `json:"accepted_at,omitempty"`
	CreatedBy      string         `gorm:"size:32" json:"created_by"`
	ApprovedBy     *string        `gorm:"size:32" json:"approved_by,omitempty"`
	StatusUpdatedAt time.Time     `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PaymentPlan) TableName() string { return "payment_plans" }

type VoteDecision string

const (
	VoteApprove VoteDecision = "approve"
	VoteReject  VoteDecision = "reject"
)

// TMVote is one top-management vote on a pending_tm plan. The (plan,
// approver) pair is unique; re-voting overwrites the earlier decision.
type TMVote struct {
	ID            uint64       `gorm:"primaryKey;column:id" json:"-"`
	PaymentPlanID uint64       `gorm:"not null;uniqueIndex:ux_tm_votes_plan_approver" json:"-"`
	ApproverID    string       `gorm:"size:32;not null;uniqueIndex:ux_tm_votes_plan_approver" json:"approver_id"`
	Decision      VoteDecision `gorm:"type:enum('approve','reject')" json:"decision"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TMVote) TableName() string { return "tm_votes" }

// ApproveQuorum is the number of distinct top-management approve votes that
// finalizes approval. A single reject vote finalizes rejection regardless.
const ApproveQuorum = 2

// TallyVotes evaluates the quorum over a consistent vote set. The returned
// status is StatusPendingTM when quorum has not been reached either way.
func TallyVotes(votes []TMVote) Status {
	approves := 0
	for _, v := range votes {
		switch v.Decision {
		case VoteReject:
			return StatusRejected
		case VoteApprove:
			approves++
		}
	}
	if approves >= ApproveQuorum {
		return StatusApproved
	}
	return StatusPendingTM
}
