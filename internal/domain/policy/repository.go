package policy

import "context"

type Repository interface {
	Create(ctx context.Context, p *ApprovalPolicy) error
	List(ctx context.Context, activeOnly bool) ([]ApprovalPolicy, error)
	// The Active* lookups return the most recently created active policy for
	// the scope, or ErrNotFound.
	ActiveByProject(ctx context.Context, projectID uint64) (*ApprovalPolicy, error)
	ActiveByUnitType(ctx context.Context, unitType string) (*ApprovalPolicy, error)
	ActiveGlobal(ctx context.Context) (*ApprovalPolicy, error)
}
