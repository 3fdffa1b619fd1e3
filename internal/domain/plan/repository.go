package plan

import "context"

// ListFilter narrows plan listings; zero values mean "no filter".
type ListFilter struct {
	DealID    uint64
	Status    Status
	CreatedBy string
}

type Repository interface {
	Create(ctx context.Context, p *PaymentPlan) error
	Save(ctx context.Context, p *PaymentPlan) error
	GetByPlanID(ctx context.Context, planID string) (*PaymentPlan, error)
	// GetByPlanIDForUpdate locks the row for the duration of the enclosing tx.
	GetByPlanIDForUpdate(ctx context.Context, planID string) (*PaymentPlan, error)
	List(ctx context.Context, f ListFilter) ([]PaymentPlan, error)
	// NextVersion returns max(version)+1 across all plans of the deal.
	NextVersion(ctx context.Context, dealID uint64) (int, error)
}

type VoteRepository interface {
	// Upsert records a vote keyed by (plan, approver); a re-vote overwrites
	// the prior decision.
	Upsert(ctx context.Context, v *TMVote) error
	ListByPlanID(ctx context.Context, planID uint64) ([]TMVote, error)
}
