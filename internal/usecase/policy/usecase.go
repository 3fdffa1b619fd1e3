package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"estate-backoffice/internal/domain/policy"
	"estate-backoffice/internal/domain/role"
	"estate-backoffice/pkg/id"
)

// ResolveLimit walks the policy scopes from most to least specific and
// returns the discount ceiling that applies to a unit. Precedence is
// project, then unit type, then global, then the built-in default.
func ResolveLimit(ctx context.Context, repo policy.Repository, projectID uint64, unitType string) (float64, error) {
	if projectID != 0 {
		p, err := repo.ActiveByProject(ctx, projectID)
		if err == nil {
			return p.LimitPercent, nil
		}
		if !errors.Is(err, policy.ErrNotFound) {
			return 0, err
		}
	}
	if unitType != "" {
		p, err := repo.ActiveByUnitType(ctx, unitType)
		if err == nil {
			return p.LimitPercent, nil
		}
		if !errors.Is(err, policy.ErrNotFound) {
			return 0, err
		}
	}
	p, err := repo.ActiveGlobal(ctx)
	if err == nil {
		return p.LimitPercent, nil
	}
	if !errors.Is(err, policy.ErrNotFound) {
		return 0, err
	}
	return policy.DefaultLimitPercent, nil
}

type CreateInput struct {
	ProjectID    *uint64
	UnitType     *string
	LimitPercent float64
	CreatedBy    string
	ActorRole    role.Role
}

type Usecase struct {
	policies policy.Repository
}

func NewUsecase(policies policy.Repository) *Usecase {
	return &Usecase{policies: policies}
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*policy.ApprovalPolicy, error) {
	if in.ActorRole != role.FinancialManager && !in.ActorRole.TopManagement() && !in.ActorRole.Superuser() {
		return nil, fmt.Errorf("create policy as %s: %w", in.ActorRole, role.ErrForbidden)
	}
	if in.ProjectID != nil && in.UnitType != nil {
		return nil, fmt.Errorf("%w: policy scope is project or unit type, not both", policy.ErrInvalidScope)
	}
	if in.UnitType != nil && strings.TrimSpace(*in.UnitType) == "" {
		return nil, fmt.Errorf("%w: empty unit type", policy.ErrInvalidScope)
	}
	if in.LimitPercent < 0 || in.LimitPercent > 100 {
		return nil, fmt.Errorf("%w: limit %.2f out of range", policy.ErrInvalidScope, in.LimitPercent)
	}
	p := &policy.ApprovalPolicy{
		PolicyID:     id.NewID32(),
		ProjectID:    in.ProjectID,
		UnitType:     in.UnitType,
		LimitPercent: in.LimitPercent,
		Active:       true,
		CreatedBy:    in.CreatedBy,
	}
	if err := u.policies.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create policy: %w", err)
	}
	return p, nil
}

func (u *Usecase) List(ctx context.Context, activeOnly bool) ([]policy.ApprovalPolicy, error) {
	return u.policies.List(ctx, activeOnly)
}
