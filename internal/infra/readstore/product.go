package readstore

import (
	"context"

	"parkgate/internal/domain/product"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"
	"parkgate/internal/usecase/queries"

	"github.com/google/uuid"
)

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(dbtx db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: dbtx}
}

func (r *ProductReadStore) FindAvailability(ctx context.Context, productID uuid.UUID) (*queries.ProductAvailabilityView, error) {
	const query = `
		SELECT p.id, p.name, p.status, p.sellable_cap,
		       p.alloc_online, p.alloc_ota, p.alloc_onsite,
		       i.online_sold, i.online_held, i.ota_sold, i.ota_held, i.onsite_sold, i.onsite_held
		FROM products p
		JOIN product_inventories i ON i.product_id = p.id
		WHERE p.id = $1`

	var (
		view                   queries.ProductAvailabilityView
		allocOnline, allocOTA  int
		allocOnsite            int
		onlineSold, onlineHeld int
		otaSold, otaHeld       int
		onsiteSold, onsiteHeld int
	)
	err := r.db.QueryRow(ctx, query, productID).Scan(
		&view.ProductID, &view.Name, &view.Status, &view.SellableCap,
		&allocOnline, &allocOTA, &allocOnsite,
		&onlineSold, &onlineHeld, &otaSold, &otaHeld, &onsiteSold, &onsiteHeld,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product availability", err)
	}

	view.Channels = []queries.ChannelAvailabilityView{
		channelAvailability(product.ChannelOnline, allocOnline, onlineSold, onlineHeld),
		channelAvailability(product.ChannelOTA, allocOTA, otaSold, otaHeld),
		channelAvailability(product.ChannelOnsite, allocOnsite, onsiteSold, onsiteHeld),
	}
	view.TotalSold = onlineSold + otaSold + onsiteSold
	view.TotalHeld = onlineHeld + otaHeld + onsiteHeld
	view.Available = view.SellableCap - view.TotalSold - view.TotalHeld

	return &view, nil
}

func channelAvailability(ch product.Channel, quota, sold, held int) queries.ChannelAvailabilityView {
	remaining := quota - sold - held
	if remaining < 0 {
		remaining = 0
	}
	return queries.ChannelAvailabilityView{
		Channel:   string(ch),
		Quota:     quota,
		Sold:      sold,
		Held:      held,
		Remaining: remaining,
	}
}
