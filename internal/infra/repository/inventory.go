package repository

import (
	"context"

	"parkgate/internal/domain/product"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"

	"github.com/google/uuid"
)

type InventoryRepository struct {
	db db.DBTX
}

func NewInventoryRepository(dbtx db.DBTX) *InventoryRepository {
	return &InventoryRepository{db: dbtx}
}

func (r *InventoryRepository) Init(ctx context.Context, productID uuid.UUID) error {
	const query = `
		INSERT INTO product_inventories (product_id)
		VALUES ($1)`

	_, err := r.db.Exec(ctx, query, productID)
	if err != nil {
		return classifyWriteErr("failed to init product inventory", err)
	}
	return nil
}

// GetForUpdate locks both the counter row and the product row. Locking the
// product row too makes the caps read current: a reserve that waited out a
// concurrent cap shrink re-reads the committed ceilings instead of the
// statement snapshot. A lock-order conflict with AdjustCaps surfaces as a
// deadlock and is retried by the unit of work.
func (r *InventoryRepository) GetForUpdate(ctx context.Context, productID uuid.UUID) (*product.Ledger, error) {
	const query = `
		SELECT i.product_id,
		       p.sellable_cap, p.alloc_online, p.alloc_ota, p.alloc_onsite, p.status,
		       i.online_sold, i.online_held, i.ota_sold, i.ota_held, i.onsite_sold, i.onsite_held
		FROM product_inventories i
		JOIN products p ON p.id = i.product_id
		WHERE i.product_id = $1
		FOR UPDATE OF i, p`

	var (
		pid                      uuid.UUID
		sellableCap              int
		allocOnline, allocOTA    int
		allocOnsite              int
		status                   string
		onlineSold, onlineHeld   int
		otaSold, otaHeld         int
		onsiteSold, onsiteHeld   int
	)
	err := r.db.QueryRow(ctx, query, productID).Scan(
		&pid, &sellableCap, &allocOnline, &allocOTA, &allocOnsite, &status,
		&onlineSold, &onlineHeld, &otaSold, &otaHeld, &onsiteSold, &onsiteHeld,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("product inventory not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock product inventory", err)
	}

	return product.ReconstructLedger(
		pid,
		sellableCap,
		product.ChannelAllocations{Online: allocOnline, OTA: allocOTA, Onsite: allocOnsite},
		product.Status(status) == product.StatusActive,
		product.Usage{
			Online: product.ChannelCounters{Sold: onlineSold, Held: onlineHeld},
			OTA:    product.ChannelCounters{Sold: otaSold, Held: otaHeld},
			Onsite: product.ChannelCounters{Sold: onsiteSold, Held: onsiteHeld},
		},
	), nil
}

func (r *InventoryRepository) Save(ctx context.Context, ledger *product.Ledger) error {
	const query = `
		UPDATE product_inventories
		SET online_sold = $2, online_held = $3,
		    ota_sold = $4, ota_held = $5,
		    onsite_sold = $6, onsite_held = $7,
		    updated_at = now()
		WHERE product_id = $1`

	usage := ledger.Usage()
	tag, err := r.db.Exec(ctx, query,
		ledger.ProductID(),
		usage.Online.Sold, usage.Online.Held,
		usage.OTA.Sold, usage.OTA.Held,
		usage.Onsite.Sold, usage.Onsite.Held,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save product inventory", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product inventory not found", nil, infra.KindNotFound)
	}
	return nil
}
