package plan

import (
	"time"

	"estate-backoffice/internal/calc"
	"estate-backoffice/internal/domain/plan"
	"estate-backoffice/internal/domain/role"
)

type CreateInput struct {
	DealID    string        `json:"deal_id"`
	Inputs    calc.Proposal `json:"inputs"`
	ActorID   string        `json:"-"`
	ActorRole role.Role     `json:"-"`
}

// ActionInput drives approve, reject, new-version and mark-accepted; Reason
// is only meaningful on reject.
type ActionInput struct {
	PlanID    string
	ActorID   string
	ActorRole role.Role
	Reason    *string
}

type VoteInput struct {
	PlanID    string
	ActorID   string
	ActorRole role.Role
	Decision  plan.VoteDecision
}

type ListInput struct {
	DealID    string
	Status    plan.Status
	CreatedBy string
}

type PlanDTO struct {
	PlanID          string          `json:"plan_id"`
	DealID          string          `json:"deal_id"`
	Version         int             `json:"version"`
	SupersedesID    *uint64         `json:"supersedes_id,omitempty"`
	Inputs          calc.Proposal   `json:"inputs"`
	Status          plan.Status     `json:"status"`
	Accepted        bool            `json:"accepted"`
	AcceptedAt      *time.Time      `json:"accepted_at,omitempty"`
	CreatedBy       string          `json:"created_by"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	Evaluation      *calc.Evaluation `json:"evaluation,omitempty"`
	StatusUpdatedAt time.Time       `json:"status_updated_at"`
	CreatedAt       time.Time       `json:"created_at"`
}
