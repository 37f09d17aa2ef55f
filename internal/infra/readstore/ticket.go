package readstore

import (
	"context"

	"parkgate/internal/infra"
	"parkgate/internal/infra/db"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TicketReadStore struct {
	db db.DBTX
}

func NewTicketReadStore(dbtx db.DBTX) *TicketReadStore {
	return &TicketReadStore{db: dbtx}
}

const ticketViewColumns = `t.id, t.reservation_id, t.order_id, t.product_id, t.channel, t.customer_ref,
	t.slot_booking_id, b.slot_id, t.expires_at, t.verified_by, t.verified_at, t.status, t.created_at, t.updated_at`

func (r *TicketReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.TicketView, error) {
	query := `
		SELECT ` + ticketViewColumns + `
		FROM tickets t
		LEFT JOIN slot_bookings b ON b.id = t.slot_booking_id
		WHERE t.id = $1`

	view, err := scanTicketView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("ticket not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ticket by ID", err)
	}
	return view, nil
}

func (r *TicketReadStore) FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*queries.TicketView, error) {
	query := `
		SELECT ` + ticketViewColumns + `
		FROM tickets t
		LEFT JOIN slot_bookings b ON b.id = t.slot_booking_id
		WHERE t.reservation_id = $1
		ORDER BY t.created_at, t.id`

	rows, err := r.db.Query(ctx, query, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tickets by reservation", err)
	}
	defer rows.Close()

	var views []*queries.TicketView
	for rows.Next() {
		view, err := scanTicketView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan ticket view", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read ticket view rows", err)
	}
	return views, nil
}

func scanTicketView(row pgx.Row) (*queries.TicketView, error) {
	var view queries.TicketView
	err := row.Scan(
		&view.ID, &view.ReservationID, &view.OrderID, &view.ProductID, &view.Channel,
		&view.CustomerRef, &view.SlotBookingID, &view.SlotID, &view.ExpiresAt,
		&view.VerifiedBy, &view.VerifiedAt, &view.Status, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
