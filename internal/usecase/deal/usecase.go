package deal

import (
	"context"
	"fmt"
	"time"

	domainDeal "estate-backoffice/internal/domain/deal"
	"estate-backoffice/internal/domain/history"
	"estate-backoffice/internal/domain/role"
	"estate-backoffice/internal/domain/unit"
	"estate-backoffice/internal/domain/uow"
	"estate-backoffice/pkg/id"
)

type Usecase struct {
	deals domainDeal.Repository
	units unit.Repository
	uow   uow.UnitOfWork
}

func NewUsecase(deals domainDeal.Repository, units unit.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{deals: deals, units: units, uow: tx}
}

type CreateInput struct {
	Title     string    `json:"title"`
	UnitID    string    `json:"unit_id"`
	ActorID   string    `json:"-"`
	ActorRole role.Role `json:"-"`
}

// OverrideInput drives the request/approve/reject override actions. Notes is
// the reason on request and the sign-off or denial note otherwise.
type OverrideInput struct {
	DealID    string
	ActorID   string
	ActorRole role.Role
	Notes     string
}

type DealDTO struct {
	DealID        string            `json:"deal_id"`
	Title         string            `json:"title"`
	UnitID        string            `json:"unit_id"`
	Status        domainDeal.Status `json:"status"`
	NeedsOverride bool              `json:"needs_override"`
	OverrideReason *string          `json:"override_reason,omitempty"`
	OverrideApprovedBy *string      `json:"override_approved_by,omitempty"`
	CreatedBy     string            `json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*DealDTO, error) {
	un, err := u.units.GetByUnitID(ctx, in.UnitID)
	if err != nil {
		return nil, err
	}
	var dto *DealDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d := &domainDeal.Deal{
			DealID:    id.NewID32(),
			Title:     in.Title,
			UnitID:    un.ID,
			Status:    domainDeal.StatusActive,
			CreatedBy: in.ActorID,
		}
		if err := r.Deals.Create(ctx, d); err != nil {
			return err
		}
		if err := r.History.AppendDeal(ctx, &history.DealEntry{
			DealID:    d.ID,
			Action:    "create",
			ActorID:   in.ActorID,
			ActorRole: string(in.ActorRole),
		}); err != nil {
			return err
		}
		dto = toDTO(d, un.UnitID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, dealID string) (*DealDTO, error) {
	d, err := u.deals.GetByDealID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	un, err := u.units.GetByID(ctx, d.UnitID)
	if err != nil {
		return nil, err
	}
	return toDTO(d, un.UnitID), nil
}

func (u *Usecase) List(ctx context.Context, status domainDeal.Status, limit, offset int) ([]DealDTO, error) {
	deals, err := u.deals.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]DealDTO, 0, len(deals))
	for i := range deals {
		un, err := u.units.GetByID(ctx, deals[i].UnitID)
		if err != nil {
			return nil, err
		}
		out = append(out, *toDTO(&deals[i], un.UnitID))
	}
	return out, nil
}

func (u *Usecase) History(ctx context.Context, dealID string) ([]history.DealEntry, error) {
	d, err := u.deals.GetByDealID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	var entries []history.DealEntry
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		entries, err = r.History.ListByDealID(ctx, d.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// RequestOverride flags the deal explicitly. The flag never blocks plan
// routing on its own; it is a marker for the executive tier.
func (u *Usecase) RequestOverride(ctx context.Context, in OverrideInput) (*DealDTO, error) {
	if in.ActorRole != role.SalesManager && in.ActorRole != role.FinancialManager && !in.ActorRole.Superuser() {
		return nil, fmt.Errorf("request override as %s: %w", in.ActorRole, role.ErrForbidden)
	}
	return u.mutateOverride(ctx, in, "override_requested", func(d *domainDeal.Deal, now time.Time) {
		d.NeedsOverride = true
		d.OverrideReason = &in.Notes
		d.OverrideRequestedBy = &in.ActorID
		d.OverrideRequestedAt = &now
	})
}

// ApproveOverride records the executive sign-off. It deliberately leaves
// NeedsOverride set; the approval data and the flag are independent fields.
func (u *Usecase) ApproveOverride(ctx context.Context, in OverrideInput) (*DealDTO, error) {
	if !in.ActorRole.TopManagement() && !in.ActorRole.Superuser() {
		return nil, fmt.Errorf("approve override as %s: %w", in.ActorRole, role.ErrForbidden)
	}
	return u.mutateOverride(ctx, in, "override_approved", func(d *domainDeal.Deal, now time.Time) {
		d.OverrideApprovedBy = &in.ActorID
		d.OverrideApprovedAt = &now
		d.OverrideNotes = &in.Notes
	})
}

// RejectOverride clears the flag and records the denial note.
func (u *Usecase) RejectOverride(ctx context.Context, in OverrideInput) (*DealDTO, error) {
	switch {
	case in.ActorRole == role.SalesManager,
		in.ActorRole == role.FinancialManager,
		in.ActorRole.TopManagement(),
		in.ActorRole.Superuser():
	default:
		return nil, fmt.Errorf("reject override as %s: %w", in.ActorRole, role.ErrForbidden)
	}
	return u.mutateOverride(ctx, in, "override_rejected", func(d *domainDeal.Deal, now time.Time) {
		d.NeedsOverride = false
		d.OverrideNotes = &in.Notes
	})
}

func (u *Usecase) mutateOverride(ctx context.Context, in OverrideInput, action string, apply func(*domainDeal.Deal, time.Time)) (*DealDTO, error) {
	var dto *DealDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Deals.GetByDealIDForUpdate(ctx, in.DealID)
		if err != nil {
			return err
		}
		apply(d, time.Now().UTC())
		if err := r.Deals.Save(ctx, d); err != nil {
			return err
		}
		notes := in.Notes
		if err := r.History.AppendDeal(ctx, &history.DealEntry{
			DealID:    d.ID,
			Action:    action,
			ActorID:   in.ActorID,
			ActorRole: string(in.ActorRole),
			Notes:     &notes,
		}); err != nil {
			return err
		}
		un, err := r.Units.GetByID(ctx, d.UnitID)
		if err != nil {
			return err
		}
		dto = toDTO(d, un.UnitID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func toDTO(d *domainDeal.Deal, unitPublicID string) *DealDTO {
	return &DealDTO{
		DealID:             d.DealID,
		Title:              d.Title,
		UnitID:             unitPublicID,
		Status:             d.Status,
		NeedsOverride:      d.NeedsOverride,
		OverrideReason:     d.OverrideReason,
		OverrideApprovedBy: d.OverrideApprovedBy,
		CreatedBy:          d.CreatedBy,
		CreatedAt:          d.CreatedAt,
	}
}
