package readstore

import (
	"context"
	"time"

	"parkgate/internal/infra"
	"parkgate/internal/infra/db"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(dbtx db.DBTX) *SlotReadStore {
	return &SlotReadStore{db: dbtx}
}

const slotViewColumns = `id, venue_id, slot_date, start_time, end_time, capacity, booked_count, status`

func (r *SlotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SlotView, error) {
	query := `SELECT ` + slotViewColumns + ` FROM reservation_slots WHERE id = $1`

	view, err := scanSlotView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("reservation slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation slot by ID", err)
	}
	return view, nil
}

func (r *SlotReadStore) FindByVenueDate(ctx context.Context, venueID uuid.UUID, date time.Time) ([]*queries.SlotView, error) {
	query := `
		SELECT ` + slotViewColumns + `
		FROM reservation_slots
		WHERE venue_id = $1 AND slot_date = $2
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, query, venueID, date)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservation slots", err)
	}
	defer rows.Close()

	var views []*queries.SlotView
	for rows.Next() {
		view, err := scanSlotView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation slot view", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation slot rows", err)
	}
	return views, nil
}

func scanSlotView(row pgx.Row) (*queries.SlotView, error) {
	var view queries.SlotView
	err := row.Scan(
		&view.ID, &view.VenueID, &view.Date, &view.StartTime, &view.EndTime,
		&view.Capacity, &view.BookedCount, &view.Status,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
