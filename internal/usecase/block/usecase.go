package block

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domainBlock "estate-backoffice/internal/domain/block"
	"estate-backoffice/internal/domain/plan"
	"estate-backoffice/internal/domain/role"
	"estate-backoffice/internal/domain/unit"
	"estate-backoffice/internal/domain/uow"
	"estate-backoffice/internal/notify"
	"estate-backoffice/pkg/id"
)

type Usecase struct {
	blocks   domainBlock.Repository
	units    unit.Repository
	uow      uow.UnitOfWork
	notifier notify.Notifier
	now      func() time.Time
}

func NewUsecase(blocks domainBlock.Repository, units unit.Repository, tx uow.UnitOfWork, n notify.Notifier) *Usecase {
	if n == nil {
		n = notify.Noop{}
	}
	return &Usecase{blocks: blocks, units: units, uow: tx, notifier: n, now: func() time.Time { return time.Now().UTC() }}
}

type RequestInput struct {
	UnitID       string `json:"unit_id"`
	DurationDays int    `json:"duration_days"`
	Reason       string `json:"reason"`
	ActorID      string `json:"-"`
	ActorRole    role.Role `json:"-"`
}

type DecideInput struct {
	BlockID   string
	ActorID   string
	ActorRole role.Role
	Reason    string
}

type ExtendInput struct {
	BlockID        string
	AdditionalDays int
	Reason         string
	ActorID        string
	ActorRole      role.Role
}

// Request opens a pending hold on an available unit. The unit stays
// available until a financial manager approves; two consultants racing on
// the same unit are separated by the active-block check under the unit lock.
func (u *Usecase) Request(ctx context.Context, in RequestInput) (*domainBlock.Block, error) {
	if in.ActorRole != role.PropertyConsultant && !in.ActorRole.Superuser() {
		return nil, fmt.Errorf("request block as %s: %w", in.ActorRole, role.ErrForbidden)
	}
	if in.DurationDays <= 0 || in.DurationDays > domainBlock.MaxTotalDurationDays {
		return nil, fmt.Errorf("%w: requested %d days", domainBlock.ErrDurationLimit, in.DurationDays)
	}

	var (
		out *domainBlock.Block
		ev  []notify.Event
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		un, err := r.Units.GetByUnitID(ctx, in.UnitID)
		if err != nil {
			return err
		}
		locked, err := r.Units.GetByIDForUpdate(ctx, un.ID)
		if err != nil {
			return err
		}
		if !locked.Available {
			return domainBlock.ErrUnitNotAvailable
		}
		if _, err := r.Blocks.ActiveByUnitID(ctx, locked.ID, u.now()); err == nil {
			return domainBlock.ErrAlreadyBlocked
		} else if !errors.Is(err, domainBlock.ErrNotFound) {
			return err
		}

		reason := in.Reason
		b := &domainBlock.Block{
			BlockID:      id.NewID32(),
			UnitID:       locked.ID,
			RequestedBy:  in.ActorID,
			DurationDays: in.DurationDays,
			Reason:       &reason,
			Status:       domainBlock.StatusPending,
			BlockedUntil: u.now().AddDate(0, 0, in.DurationDays),
		}
		if err := r.Blocks.Create(ctx, b); err != nil {
			return err
		}
		ev = append(ev, notify.Event{
			Type: "block_requested", RefTable: "blocks", RefID: b.ID,
			Message: fmt.Sprintf("block requested on unit %s for %d days", locked.Code, in.DurationDays),
		})
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.dispatch(ctx, ev)
	return out, nil
}

// Approve grants a pending hold and locks the unit in the same transaction.
func (u *Usecase) Approve(ctx context.Context, in DecideInput) (*domainBlock.Block, error) {
	return u.decide(ctx, in, true)
}

// Reject declines a pending hold; the unit is untouched.
func (u *Usecase) Reject(ctx context.Context, in DecideInput) (*domainBlock.Block, error) {
	return u.decide(ctx, in, false)
}

func (u *Usecase) decide(ctx context.Context, in DecideInput, approve bool) (*domainBlock.Block, error) {
	if in.ActorRole != role.FinancialManager && !in.ActorRole.Superuser() {
		return nil, fmt.Errorf("decide block as %s: %w", in.ActorRole, role.ErrForbidden)
	}

	var (
		out *domainBlock.Block
		ev  []notify.Event
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Blocks.GetByBlockIDForUpdate(ctx, in.BlockID)
		if err != nil {
			return err
		}
		if b.Status != domainBlock.StatusPending {
			return &plan.StateConflictError{Action: "decide_block", Current: plan.Status(b.Status),
				Allowed: []plan.Status{plan.Status(domainBlock.StatusPending)}}
		}
		now := u.now()
		reason := in.Reason
		if approve {
			un, err := r.Units.GetByIDForUpdate(ctx, b.UnitID)
			if err != nil {
				return err
			}
			if !un.Available {
				return domainBlock.ErrUnitNotAvailable
			}
			if err := r.Units.SetAvailability(ctx, un.ID, false); err != nil {
				return err
			}
			b.Status = domainBlock.StatusApproved
			b.ApprovedBy = &in.ActorID
			b.ApprovedAt = &now
			b.ApprovalReason = &reason
			b.BlockedUntil = now.AddDate(0, 0, b.DurationDays)
		} else {
			b.Status = domainBlock.StatusRejected
			b.RejectedBy = &in.ActorID
			b.RejectedAt = &now
			b.RejectionReason = &reason
		}
		if err := r.Blocks.Save(ctx, b); err != nil {
			return err
		}
		evType := "block_rejected"
		if approve {
			evType = "block_approved"
		}
		ev = append(ev, notify.Event{
			Type: evType, UserID: &b.RequestedBy, RefTable: "blocks", RefID: b.ID,
			Message: fmt.Sprintf("block %s %s", b.BlockID, b.Status),
		})
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.dispatch(ctx, ev)
	return out, nil
}

// Extend pushes out an approved hold's expiry. Both caps apply together:
// no more than MaxExtensions extensions and no more than
// MaxTotalDurationDays granted in total.
func (u *Usecase) Extend(ctx context.Context, in ExtendInput) (*domainBlock.Block, error) {
	if in.ActorRole != role.FinancialManager && !in.ActorRole.Superuser() {
		return nil, fmt.Errorf("extend block as %s: %w", in.ActorRole, role.ErrForbidden)
	}
	if in.AdditionalDays <= 0 {
		return nil, fmt.Errorf("%w: additional days must be positive", domainBlock.ErrDurationLimit)
	}

	var out *domainBlock.Block
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Blocks.GetByBlockIDForUpdate(ctx, in.BlockID)
		if err != nil {
			return err
		}
		if b.Status != domainBlock.StatusApproved {
			return &plan.StateConflictError{Action: "extend_block", Current: plan.Status(b.Status),
				Allowed: []plan.Status{plan.Status(domainBlock.StatusApproved)}}
		}
		if b.ExtensionCount >= domainBlock.MaxExtensions {
			return domainBlock.ErrExtensionLimit
		}
		if b.TotalDurationDays()+in.AdditionalDays > domainBlock.MaxTotalDurationDays {
			return domainBlock.ErrDurationLimit
		}
		now := u.now()
		reason := in.Reason
		b.ExtensionCount++
		b.ExtendedDays += in.AdditionalDays
		b.BlockedUntil = b.BlockedUntil.AddDate(0, 0, in.AdditionalDays)
		b.LastExtensionReason = &reason
		b.LastExtendedBy = &in.ActorID
		b.LastExtendedAt = &now
		if err := r.Blocks.Save(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListCurrent returns active holds. Consultants see only their own;
// management tiers see all.
func (u *Usecase) ListCurrent(ctx context.Context, actorID string, actorRole role.Role) ([]domainBlock.Block, error) {
	requestedBy := ""
	if actorRole == role.PropertyConsultant {
		requestedBy = actorID
	}
	return u.blocks.ListCurrent(ctx, u.now(), requestedBy)
}

// ExpireDue moves every elapsed approved hold to expired and releases its
// unit. Safe to run on overlapping schedules: the selection predicate only
// matches rows still approved with an elapsed expiry.
func (u *Usecase) ExpireDue(ctx context.Context) (int, error) {
	var (
		expired int
		ev      []notify.Event
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		due, err := r.Blocks.ListDue(ctx, u.now())
		if err != nil {
			return err
		}
		for i := range due {
			b := &due[i]
			b.Status = domainBlock.StatusExpired
			if err := r.Blocks.Save(ctx, b); err != nil {
				return err
			}
			if err := r.Units.SetAvailability(ctx, b.UnitID, true); err != nil {
				return err
			}
			ev = append(ev, notify.Event{
				Type: "block_expired", UserID: &b.RequestedBy, RefTable: "blocks", RefID: b.ID,
				Message: fmt.Sprintf("block %s expired", b.BlockID),
			})
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	u.dispatch(ctx, ev)
	return expired, nil
}

// RunExpirySweeper blocks until ctx is done, sweeping on every tick.
func (u *Usecase) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := u.ExpireDue(ctx)
			if err != nil {
				log.Printf("block sweep: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("block sweep: expired %d holds", n)
			}
		}
	}
}

func (u *Usecase) dispatch(ctx context.Context, events []notify.Event) {
	for _, e := range events {
		u.notifier.Notify(ctx, e)
	}
}
