package repository

import (
	"context"
	"time"

	"parkgate/internal/domain/slot"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"

	"github.com/google/uuid"
)

type SlotRepository struct {
	db db.DBTX
}

func NewSlotRepository(dbtx db.DBTX) *SlotRepository {
	return &SlotRepository{db: dbtx}
}

func (r *SlotRepository) Create(ctx context.Context, s *slot.ReservationSlot) error {
	const query = `
		INSERT INTO reservation_slots
			(id, venue_id, slot_date, start_time, end_time, capacity, booked_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		s.ID(), s.VenueID(), s.Date(), s.StartTime(), s.EndTime(),
		s.Capacity(), s.BookedCount(), string(s.Status()),
	)
	if err != nil {
		return classifyWriteErr("failed to create reservation slot", err)
	}
	return nil
}

func (r *SlotRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*slot.ReservationSlot, error) {
	const query = `
		SELECT id, venue_id, slot_date, start_time, end_time, capacity, booked_count, status, created_at, updated_at
		FROM reservation_slots
		WHERE id = $1
		FOR UPDATE`

	var (
		sid, venueID           uuid.UUID
		date, start, end       time.Time
		capacity, bookedCount  int
		status                 string
		createdAt, updatedAt   time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&sid, &venueID, &date, &start, &end, &capacity, &bookedCount, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("reservation slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation slot for update", err)
	}

	return slot.ReconstructReservationSlot(
		sid, venueID, date, start, end, capacity, bookedCount,
		slot.Status(status), createdAt, updatedAt,
	), nil
}

func (r *SlotRepository) Save(ctx context.Context, s *slot.ReservationSlot) error {
	const query = `
		UPDATE reservation_slots
		SET booked_count = $2, status = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, s.ID(), s.BookedCount(), string(s.Status()))
	if err != nil {
		return infra.WrapRepoErr("failed to save reservation slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation slot not found", nil, infra.KindNotFound)
	}
	return nil
}
