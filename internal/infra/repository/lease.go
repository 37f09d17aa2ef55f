package repository

import (
	"context"
	"time"

	"parkgate/internal/domain/lease"
	"parkgate/internal/domain/product"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"

	"github.com/google/uuid"
)

type LeaseRepository struct {
	db db.DBTX
}

func NewLeaseRepository(dbtx db.DBTX) *LeaseRepository {
	return &LeaseRepository{db: dbtx}
}

const leaseColumns = `id, product_id, channel, partner_id, quantity, status, expires_at, order_id, idempotency_key, created_at, updated_at`

func (r *LeaseRepository) Create(ctx context.Context, res *lease.ChannelReservation) error {
	const query = `
		INSERT INTO channel_reservations
			(id, product_id, channel, partner_id, quantity, status, expires_at, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		res.ID(), res.ProductID(), string(res.Channel()), res.PartnerID(),
		res.Quantity(), string(res.Status()), res.ExpiresAt(), res.IdempotencyKey(),
	)
	if err != nil {
		return classifyWriteErr("failed to create channel reservation", err)
	}
	return nil
}

func (r *LeaseRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*lease.ChannelReservation, error) {
	query := `SELECT ` + leaseColumns + ` FROM channel_reservations WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

func (r *LeaseRepository) FindByIdempotencyKey(ctx context.Context, key string) (*lease.ChannelReservation, error) {
	query := `SELECT ` + leaseColumns + ` FROM channel_reservations WHERE idempotency_key = $1 FOR UPDATE`
	return r.scanOne(ctx, query, key)
}

// UpdateStatus is the compare-and-set that makes payment, cancellation and the
// expiry sweep race-safe: only the writer that observed `from` wins.
func (r *LeaseRepository) UpdateStatus(ctx context.Context, res *lease.ChannelReservation, from lease.Status) (bool, error) {
	const query = `
		UPDATE channel_reservations
		SET status = $2, order_id = $3, updated_at = now()
		WHERE id = $1 AND status = $4`

	tag, err := r.db.Exec(ctx, query, res.ID(), string(res.Status()), res.OrderID(), string(from))
	if err != nil {
		return false, infra.WrapRepoErr("failed to update reservation status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LeaseRepository) scanOne(ctx context.Context, query string, arg any) (*lease.ChannelReservation, error) {
	var (
		id, productID        uuid.UUID
		channel              string
		partnerID, orderID   *uuid.UUID
		quantity             int
		status               string
		expiresAt            time.Time
		idempotencyKey       string
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&id, &productID, &channel, &partnerID, &quantity, &status,
		&expiresAt, &orderID, &idempotencyKey, &createdAt, &updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("channel reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find channel reservation", err)
	}

	return lease.ReconstructChannelReservation(
		id, productID,
		product.Channel(channel),
		partnerID, quantity,
		lease.Status(status),
		expiresAt, orderID, idempotencyKey,
		createdAt, updatedAt,
	), nil
}
