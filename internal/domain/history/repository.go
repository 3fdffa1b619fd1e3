package history

import "context"

type Repository interface {
	AppendPlan(ctx context.Context, e *PlanEntry) error
	AppendDeal(ctx context.Context, e *DealEntry) error
	ListByPlanID(ctx context.Context, planID uint64) ([]PlanEntry, error)
	ListByDealID(ctx context.Context, dealID uint64) ([]DealEntry, error)
}
