package commands

import (
	"context"
	"time"

	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/product"
	"parkgate/internal/domain/slot"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/pkg/password"
	"parkgate/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateProductInput struct {
	Name        string
	SellableCap int
	Allocations product.ChannelAllocations
}

type AdjustCapsInput struct {
	ProductID   uuid.UUID
	SellableCap int
	Allocations product.ChannelAllocations
}

type CreateSlotInput struct {
	VenueID  uuid.UUID
	Date     time.Time
	Start    time.Time
	End      time.Time
	Capacity int
}

type CreateOperatorInput struct {
	Username  string
	Password  string
	Type      operator.Type
	PartnerID *uuid.UUID
}

// AdminCommands covers catalog-side setup: products with their caps, venue
// slots and verification operators. Kept deliberately thin; the capacity
// machinery never depends on it.
type AdminCommands interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (uuid.UUID, error)
	// AdjustCaps re-validates new ceilings against current commitments so a
	// shrink can never make existing sales invalid.
	AdjustCaps(ctx context.Context, in AdjustCapsInput) error
	CreateSlot(ctx context.Context, in CreateSlotInput) (uuid.UUID, error)
	CreateOperator(ctx context.Context, in CreateOperatorInput) (uuid.UUID, error)
}

type adminCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewAdminCommands(uow shared.UnitOfWork) AdminCommands {
	return &adminCommandsImpl{uow: uow}
}

func (c *adminCommandsImpl) CreateProduct(ctx context.Context, in CreateProductInput) (uuid.UUID, error) {
	p, err := product.NewProduct(in.Name, in.SellableCap, in.Allocations)
	if err != nil {
		return uuid.Nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Products().Create(ctx, p); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return tx.Inventory().Init(ctx, p.ID())
	})
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID(), nil
}

func (c *adminCommandsImpl) AdjustCaps(ctx context.Context, in AdjustCapsInput) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Products().GetForUpdate(ctx, in.ProductID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrProductNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// Lock the counters too: a concurrent reserve must not slip units in
		// between the validation and the cap update.
		ledger, err := tx.Inventory().GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := p.AdjustCaps(in.SellableCap, in.Allocations, ledger.Usage()); err != nil {
			return err
		}
		return tx.Products().UpdateCaps(ctx, p)
	})
}

func (c *adminCommandsImpl) CreateSlot(ctx context.Context, in CreateSlotInput) (uuid.UUID, error) {
	s, err := slot.NewReservationSlot(in.VenueID, in.Date, in.Start, in.End, in.Capacity)
	if err != nil {
		return uuid.Nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Slots().Create(ctx, s)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return s.ID(), nil
}

func (c *adminCommandsImpl) CreateOperator(ctx context.Context, in CreateOperatorInput) (uuid.UUID, error) {
	hash, err := password.HashPassword(in.Password)
	if err != nil {
		return uuid.Nil, err
	}

	op, err := operator.NewOperator(in.Username, hash, in.Type, in.PartnerID)
	if err != nil {
		return uuid.Nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Operators().Create(ctx, op)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return op.ID(), nil
}
