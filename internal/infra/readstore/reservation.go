package readstore

import (
	"context"
	"time"

	"parkgate/internal/infra"
	"parkgate/internal/infra/db"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	const query = `
		SELECT r.id, r.product_id, p.name, r.channel, r.partner_id, r.quantity,
		       r.status, r.expires_at, r.order_id, r.idempotency_key, r.created_at, r.updated_at
		FROM channel_reservations r
		JOIN products p ON p.id = r.product_id
		WHERE r.id = $1`

	var view queries.ReservationView
	err := r.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.ProductID, &view.ProductName, &view.Channel, &view.PartnerID,
		&view.Quantity, &view.Status, &view.ExpiresAt, &view.OrderID,
		&view.IdempotencyKey, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	ticketIDs, err := r.ticketIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	view.TicketIDs = ticketIDs

	return &view, nil
}

func (r *ReservationReadStore) ticketIDs(ctx context.Context, reservationID uuid.UUID) ([]uuid.UUID, error) {
	const query = `SELECT id FROM tickets WHERE reservation_id = $1 ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservation ticket ids", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan ticket id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read ticket id rows", err)
	}
	return ids, nil
}

// DueLeaseIDs lists active reservations whose deadline has passed, oldest
// first so a backlog drains in deadline order.
func (r *ReservationReadStore) DueLeaseIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	const query = `
		SELECT id FROM channel_reservations
		WHERE status = 'active' AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list due reservations", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan due reservation id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read due reservation rows", err)
	}
	return ids, nil
}
