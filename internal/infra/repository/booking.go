package repository

import (
	"context"
	"time"

	"parkgate/internal/domain/slot"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func (r *BookingRepository) Create(ctx context.Context, b *slot.TicketReservation) error {
	const query = `
		INSERT INTO slot_bookings (id, ticket_id, slot_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		b.ID(), b.TicketID(), b.SlotID(), string(b.Status()), b.CreatedAt(),
	)
	if err != nil {
		return classifyWriteErr("failed to create slot booking", err)
	}
	return nil
}

func (r *BookingRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*slot.TicketReservation, error) {
	const query = `
		SELECT id, ticket_id, slot_id, status, created_at, updated_at
		FROM slot_bookings
		WHERE id = $1
		FOR UPDATE`

	var (
		bid, ticketID, slotID uuid.UUID
		status                string
		createdAt, updatedAt  time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&bid, &ticketID, &slotID, &status, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("slot booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot booking for update", err)
	}

	return slot.ReconstructTicketReservation(
		bid, ticketID, slotID, slot.BookingStatus(status), createdAt, updatedAt,
	), nil
}

func (r *BookingRepository) Update(ctx context.Context, b *slot.TicketReservation) error {
	const query = `
		UPDATE slot_bookings
		SET status = $2, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, b.ID(), string(b.Status()))
	if err != nil {
		return infra.WrapRepoErr("failed to update slot booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot booking not found", nil, infra.KindNotFound)
	}
	return nil
}
