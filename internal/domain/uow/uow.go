package uow

import (
	"context"

	"estate-backoffice/internal/domain/block"
	"estate-backoffice/internal/domain/deal"
	"estate-backoffice/internal/domain/history"
	"estate-backoffice/internal/domain/plan"
	"estate-backoffice/internal/domain/policy"
	"estate-backoffice/internal/domain/unit"
)

// Repos is the full repository set bound to a single transaction.
type Repos struct {
	Plans    plan.Repository
	Votes    plan.VoteRepository
	Deals    deal.Repository
	Units    unit.Repository
	Policies policy.Repository
	Blocks   block.Repository
	History  history.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn in one transaction; any error rolls everything back.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinPlanTx locks the plan row first, then passes it in. Two
	// concurrent transitions on the same plan serialize here.
	WithinPlanTx(ctx context.Context, planID string, fn func(r Repos, p *plan.PaymentPlan) error) error
}
