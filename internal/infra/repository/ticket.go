package repository

import (
	"context"
	"time"

	"parkgate/internal/domain/product"
	"parkgate/internal/domain/ticket"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TicketRepository struct {
	db db.DBTX
}

func NewTicketRepository(dbtx db.DBTX) *TicketRepository {
	return &TicketRepository{db: dbtx}
}

const ticketColumns = `id, reservation_id, order_id, product_id, channel, partner_id, customer_ref,
	slot_booking_id, expires_at, verified_by, verified_at, status, created_at, updated_at`

func (r *TicketRepository) CreateBatch(ctx context.Context, tickets []*ticket.Ticket) error {
	const query = `
		INSERT INTO tickets
			(id, reservation_id, product_id, channel, partner_id, customer_ref, expires_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	batch := &pgx.Batch{}
	for _, t := range tickets {
		batch.Queue(query,
			t.ID(), t.ReservationID(), t.ProductID(), string(t.Channel()),
			t.PartnerID(), t.CustomerRef(), t.ExpiresAt(), string(t.Status()),
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range tickets {
		if _, err := results.Exec(); err != nil {
			return classifyWriteErr("failed to create tickets", err)
		}
	}
	return nil
}

func (r *TicketRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1 FOR UPDATE`

	t, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("ticket not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ticket for update", err)
	}
	return t, nil
}

func (r *TicketRepository) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE reservation_id = $1 ORDER BY created_at, id FOR UPDATE`

	rows, err := r.db.Query(ctx, query, reservationID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tickets by reservation", err)
	}
	defer rows.Close()

	var tickets []*ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan ticket row", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read ticket rows", err)
	}
	return tickets, nil
}

func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	const query = `
		UPDATE tickets
		SET order_id = $2, slot_booking_id = $3, expires_at = $4,
		    verified_by = $5, verified_at = $6, status = $7, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		t.ID(), t.OrderID(), t.SlotBookingID(), t.ExpiresAt(),
		t.VerifiedBy(), t.VerifiedAt(), string(t.Status()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update ticket", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("ticket not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanTicket(row pgx.Row) (*ticket.Ticket, error) {
	var (
		id, reservationID, productID uuid.UUID
		orderID, partnerID           *uuid.UUID
		channel                      string
		customerRef                  string
		slotBookingID, verifiedBy    *uuid.UUID
		expiresAt, verifiedAt        *time.Time
		status                       string
		createdAt, updatedAt         time.Time
	)
	err := row.Scan(
		&id, &reservationID, &orderID, &productID, &channel, &partnerID, &customerRef,
		&slotBookingID, &expiresAt, &verifiedBy, &verifiedAt, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return ticket.Reconstruct(
		id, reservationID, orderID, productID,
		product.Channel(channel),
		partnerID, customerRef,
		slotBookingID, expiresAt, verifiedBy, verifiedAt,
		ticket.Status(status),
		createdAt, updatedAt,
	), nil
}
