package commands

import (
	"context"
	"time"

	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/ticket"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/shared"

	"github.com/google/uuid"
)

type VerifyResult struct {
	VerifiedAt time.Time
	Replayed   bool
}

type VerificationCommands interface {
	// Verify authorizes the operator against the ticket's sales channel and
	// marks the ticket verified. The slot's booked count is not returned.
	Verify(ctx context.Context, operatorID, ticketID uuid.UUID) (*VerifyResult, error)
}

type verificationCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewVerificationCommands(uow shared.UnitOfWork, clk clock.Clock) VerificationCommands {
	return &verificationCommandsImpl{uow: uow, clock: clk}
}

func (c *verificationCommandsImpl) Verify(ctx context.Context, operatorID, ticketID uuid.UUID) (*VerifyResult, error) {
	op, err := c.uow.Reads().OperatorByID(ctx, operatorID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOperatorNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	now := c.clock.Now()
	var result *VerifyResult

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		tkt, err := tx.Tickets().GetForUpdate(ctx, ticketID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrTicketNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		// Scope check comes before any state inspection so a denied operator
		// learns nothing about the ticket's progress.
		if err := operator.Authorize(op, tkt.Channel(), tkt.PartnerID()); err != nil {
			return err
		}

		if tkt.Status() == ticket.StatusVerified {
			verifiedAt := now
			if tkt.VerifiedAt() != nil {
				verifiedAt = *tkt.VerifiedAt()
			}
			result = &VerifyResult{VerifiedAt: verifiedAt, Replayed: true}
			return nil
		}
		if tkt.Status() != ticket.StatusReserved {
			return ticket.ErrInvalidTransition
		}

		if tkt.SlotBookingID() == nil {
			return ticket.ErrInvalidTransition
		}
		booking, err := tx.Bookings().GetForUpdate(ctx, *tkt.SlotBookingID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := booking.Verify(); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, booking); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tkt.Verify(operatorID, now); err != nil {
			return err
		}
		if err := tx.Tickets().Update(ctx, tkt); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result = &VerifyResult{VerifiedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
