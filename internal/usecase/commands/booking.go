package commands

import (
	"context"

	"parkgate/internal/domain/slot"
	"parkgate/internal/domain/ticket"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookSlotResult struct {
	BookingID uuid.UUID
	Replayed  bool
}

type BookingCommands interface {
	// BookSlot binds an activated ticket to a slot, claiming one unit of the
	// slot's capacity. Rebooking the same ticket into the same slot replays.
	BookSlot(ctx context.Context, ticketID, slotID uuid.UUID) (*BookSlotResult, error)
	// CancelBooking releases the slot unit and cancels the ticket.
	CancelBooking(ctx context.Context, bookingID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock) BookingCommands {
	return &bookingCommandsImpl{uow: uow, clock: clk}
}

func (c *bookingCommandsImpl) BookSlot(ctx context.Context, ticketID, slotID uuid.UUID) (*BookSlotResult, error) {
	now := c.clock.Now()
	var result *BookSlotResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		tkt, err := tx.Tickets().GetForUpdate(ctx, ticketID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrTicketNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if tkt.Status() == ticket.StatusReserved && tkt.SlotBookingID() != nil {
			existing, err := tx.Bookings().GetForUpdate(ctx, *tkt.SlotBookingID())
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if existing.SlotID() == slotID && existing.IsReserved() {
				result = &BookSlotResult{BookingID: existing.ID(), Replayed: true}
				return nil
			}
			return ticket.ErrInvalidTransition
		}

		reservationSlot, err := tx.Slots().GetForUpdate(ctx, slotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrSlotNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := reservationSlot.Book(); err != nil {
			return err
		}
		if err := tx.Slots().Save(ctx, reservationSlot); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		booking := slot.NewTicketReservation(ticketID, slotID, now)
		if err := tx.Bookings().Create(ctx, booking); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := tkt.BindSlot(booking.ID()); err != nil {
			return err
		}
		if err := tx.Tickets().Update(ctx, tkt); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		result = &BookSlotResult{BookingID: booking.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		booking, err := tx.Bookings().GetForUpdate(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrSlotBookingNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if booking.Status() == slot.BookingCancelled {
			return nil
		}
		if err := booking.Cancel(); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, booking); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		reservationSlot, err := tx.Slots().GetForUpdate(ctx, booking.SlotID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := reservationSlot.ReleaseBooking(); err != nil {
			return err
		}
		if err := tx.Slots().Save(ctx, reservationSlot); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		tkt, err := tx.Tickets().GetForUpdate(ctx, booking.TicketID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tkt.Cancel(); err != nil {
			return err
		}
		return tx.Tickets().Update(ctx, tkt)
	})
}
