package commands

import (
	"context"
	"time"

	"parkgate/internal/domain/lease"
	"parkgate/internal/domain/product"
	"parkgate/internal/domain/ticket"
	"parkgate/internal/infra"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/config"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReserveInput struct {
	ProductID      uuid.UUID
	Channel        product.Channel
	PartnerID      *uuid.UUID
	Quantity       int
	TTL            time.Duration
	CustomerRef    string
	IdempotencyKey string
}

type ReserveResult struct {
	ReservationID uuid.UUID
	ExpiresAt     time.Time
	TicketIDs     []uuid.UUID
	Replayed      bool
}

type ConfirmPaymentResult struct {
	TicketIDs []uuid.UUID
	Replayed  bool
}

type ReservationCommands interface {
	// Reserve opens a time-bounded hold against the product's capacity ledger
	// and creates one pending ticket per unit.
	Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error)
	// ConfirmPayment converts an active hold into a committed sale and
	// activates its tickets. Replaying a confirmation returns the same tickets.
	ConfirmPayment(ctx context.Context, reservationID, orderID uuid.UUID) (*ConfirmPaymentResult, error)
	// Cancel releases an active hold. Cancelling a settled reservation is a no-op.
	Cancel(ctx context.Context, reservationID uuid.UUID) error
	// ExpireDue sweeps overdue holds and returns how many were expired.
	ExpireDue(ctx context.Context, batchSize int) (int, error)
}

type reservationCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.LeaseConfig
}

func NewReservationCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) ReservationCommands {
	return &reservationCommandsImpl{
		uow:   uow,
		clock: clk,
		cfg:   cfg.Lease,
	}
}

func (c *reservationCommandsImpl) Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error) {
	if in.IdempotencyKey == "" {
		return nil, errs.ErrIdempotencyKeyRequired
	}
	if in.Quantity <= 0 {
		return nil, product.ErrInvalidQuantity
	}
	if !in.Channel.IsValid() {
		return nil, product.ErrUnknownChannel
	}

	ttl := in.TTL
	if ttl <= 0 {
		ttl = c.cfg.DefaultTTL
	}
	if ttl > c.cfg.MaxTTL {
		ttl = c.cfg.MaxTTL
	}

	now := c.clock.Now()
	var result *ReserveResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Leases().FindByIdempotencyKey(ctx, in.IdempotencyKey)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if existing != nil {
			replayed, err := c.replayReserve(ctx, tx, existing, in)
			if err != nil {
				return err
			}
			result = replayed
			return nil
		}

		ledger, err := tx.Inventory().GetForUpdate(ctx, in.ProductID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrProductNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := ledger.TryReserve(in.Channel, in.Quantity); err != nil {
			return err
		}
		if err := tx.Inventory().Save(ctx, ledger); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		reservation, err := lease.NewChannelReservation(
			in.ProductID, in.Channel, in.PartnerID, in.Quantity, ttl, in.IdempotencyKey, now,
		)
		if err != nil {
			return err
		}
		if err := tx.Leases().Create(ctx, reservation); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		tickets := make([]*ticket.Ticket, 0, in.Quantity)
		for i := 0; i < in.Quantity; i++ {
			tickets = append(tickets, ticket.NewPending(
				reservation.ID(), in.ProductID, in.Channel, in.PartnerID,
				in.CustomerRef, reservation.ExpiresAt(), now,
			))
		}
		if err := tx.Tickets().CreateBatch(ctx, tickets); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		ids := make([]uuid.UUID, len(tickets))
		for i, t := range tickets {
			ids[i] = t.ID()
		}
		result = &ReserveResult{
			ReservationID: reservation.ID(),
			ExpiresAt:     reservation.ExpiresAt(),
			TicketIDs:     ids,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// replayReserve answers a retried request with the reservation it already
// created. Reusing the key with different parameters is a conflict.
func (c *reservationCommandsImpl) replayReserve(
	ctx context.Context,
	tx shared.Tx,
	existing *lease.ChannelReservation,
	in ReserveInput,
) (*ReserveResult, error) {
	if existing.ProductID() != in.ProductID ||
		existing.Channel() != in.Channel ||
		existing.Quantity() != in.Quantity {
		return nil, errs.ErrIdempotencyConflict
	}

	ids, err := c.ticketIDs(ctx, tx, existing.ID())
	if err != nil {
		return nil, err
	}
	return &ReserveResult{
		ReservationID: existing.ID(),
		ExpiresAt:     existing.ExpiresAt(),
		TicketIDs:     ids,
		Replayed:      true,
	}, nil
}

func (c *reservationCommandsImpl) ConfirmPayment(ctx context.Context, reservationID, orderID uuid.UUID) (*ConfirmPaymentResult, error) {
	now := c.clock.Now()
	var result *ConfirmPaymentResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reservation, err := tx.Leases().GetForUpdate(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrReservationNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		switch reservation.Status() {
		case lease.StatusActivated:
			// Retried confirmation: same ticket set, no second commit.
			ids, err := c.ticketIDs(ctx, tx, reservation.ID())
			if err != nil {
				return err
			}
			result = &ConfirmPaymentResult{TicketIDs: ids, Replayed: true}
			return nil
		case lease.StatusExpired, lease.StatusCancelled:
			return lease.ErrNotActive
		}

		if err := reservation.Activate(orderID, now); err != nil {
			return err
		}
		applied, err := tx.Leases().UpdateStatus(ctx, reservation, lease.StatusActive)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !applied {
			// The sweep or a cancel won the race.
			return lease.ErrNotActive
		}

		ledger, err := tx.Inventory().GetForUpdate(ctx, reservation.ProductID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := ledger.Commit(reservation.Channel(), reservation.Quantity()); err != nil {
			return err
		}
		if err := tx.Inventory().Save(ctx, ledger); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		tickets, err := tx.Tickets().ListByReservation(ctx, reservation.ID())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		ids := make([]uuid.UUID, 0, len(tickets))
		for _, t := range tickets {
			if err := t.Activate(orderID); err != nil {
				return err
			}
			if err := tx.Tickets().Update(ctx, t); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			ids = append(ids, t.ID())
		}

		result = &ConfirmPaymentResult{TicketIDs: ids}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, reservationID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reservation, err := tx.Leases().GetForUpdate(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrReservationNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if !reservation.IsActive() {
			// Already settled one way or another; cancellation is idempotent.
			return nil
		}

		if err := reservation.Cancel(); err != nil {
			return err
		}
		applied, err := tx.Leases().UpdateStatus(ctx, reservation, lease.StatusActive)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !applied {
			return nil
		}

		if err := c.releaseHeldCapacity(ctx, tx, reservation); err != nil {
			return err
		}
		return c.cancelPendingTickets(ctx, tx, reservation.ID())
	})
}

// ExpireDue runs one sweep pass. Each overdue hold is settled in its own
// transaction so one poisoned row cannot wedge the whole batch.
func (c *reservationCommandsImpl) ExpireDue(ctx context.Context, batchSize int) (int, error) {
	now := c.clock.Now()
	ids, err := c.uow.Reads().DueLeaseIDs(ctx, now, batchSize)
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	expired := 0
	for _, id := range ids {
		ok, err := c.expireOne(ctx, id, now)
		if err != nil {
			return expired, err
		}
		if ok {
			expired++
		}
	}
	return expired, nil
}

func (c *reservationCommandsImpl) expireOne(ctx context.Context, reservationID uuid.UUID, now time.Time) (bool, error) {
	var expired bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		reservation, err := tx.Leases().GetForUpdate(ctx, reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := reservation.Expire(now); err != nil {
			// Activated or cancelled since the scan; nothing to reclaim.
			return nil
		}
		applied, err := tx.Leases().UpdateStatus(ctx, reservation, lease.StatusActive)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !applied {
			return nil
		}

		if err := c.releaseHeldCapacity(ctx, tx, reservation); err != nil {
			return err
		}
		if err := c.expirePendingTickets(ctx, tx, reservation.ID()); err != nil {
			return err
		}
		expired = true
		return nil
	})
	return expired, err
}

func (c *reservationCommandsImpl) releaseHeldCapacity(ctx context.Context, tx shared.Tx, r *lease.ChannelReservation) error {
	ledger, err := tx.Inventory().GetForUpdate(ctx, r.ProductID())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := ledger.Release(r.Channel(), r.Quantity()); err != nil {
		return err
	}
	if err := tx.Inventory().Save(ctx, ledger); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *reservationCommandsImpl) cancelPendingTickets(ctx context.Context, tx shared.Tx, reservationID uuid.UUID) error {
	return c.eachReservationTicket(ctx, tx, reservationID, func(t *ticket.Ticket) error {
		return t.Cancel()
	})
}

func (c *reservationCommandsImpl) expirePendingTickets(ctx context.Context, tx shared.Tx, reservationID uuid.UUID) error {
	return c.eachReservationTicket(ctx, tx, reservationID, func(t *ticket.Ticket) error {
		return t.Expire()
	})
}

func (c *reservationCommandsImpl) eachReservationTicket(
	ctx context.Context,
	tx shared.Tx,
	reservationID uuid.UUID,
	transition func(*ticket.Ticket) error,
) error {
	tickets, err := tx.Tickets().ListByReservation(ctx, reservationID)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	for _, t := range tickets {
		if err := transition(t); err != nil {
			return err
		}
		if err := tx.Tickets().Update(ctx, t); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}
	return nil
}

func (c *reservationCommandsImpl) ticketIDs(ctx context.Context, tx shared.Tx, reservationID uuid.UUID) ([]uuid.UUID, error) {
	tickets, err := tx.Tickets().ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	ids := make([]uuid.UUID, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID()
	}
	return ids, nil
}
