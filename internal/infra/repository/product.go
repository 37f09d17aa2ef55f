package repository

import (
	"context"
	"time"

	"parkgate/internal/domain/product"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"

	"github.com/google/uuid"
)

type ProductRepository struct {
	db db.DBTX
}

func NewProductRepository(dbtx db.DBTX) *ProductRepository {
	return &ProductRepository{db: dbtx}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	const query = `
		INSERT INTO products (id, name, sellable_cap, alloc_online, alloc_ota, alloc_onsite, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	alloc := p.Allocations()
	_, err := r.db.Exec(ctx, query,
		p.ID(), p.Name(), p.SellableCap(),
		alloc.Online, alloc.OTA, alloc.Onsite,
		string(p.Status()),
	)
	if err != nil {
		return classifyWriteErr("failed to create product", err)
	}
	return nil
}

func (r *ProductRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	const query = `
		SELECT id, name, sellable_cap, alloc_online, alloc_ota, alloc_onsite, status, created_at, updated_at
		FROM products
		WHERE id = $1
		FOR UPDATE`

	var (
		pid                  uuid.UUID
		name                 string
		sellableCap          int
		online, ota, onsite  int
		status               string
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&pid, &name, &sellableCap, &online, &ota, &onsite, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product for update", err)
	}

	return product.ReconstructProduct(
		pid, name, sellableCap,
		product.ChannelAllocations{Online: online, OTA: ota, Onsite: onsite},
		product.Status(status),
		createdAt, updatedAt,
	), nil
}

func (r *ProductRepository) UpdateCaps(ctx context.Context, p *product.Product) error {
	const query = `
		UPDATE products
		SET sellable_cap = $2, alloc_online = $3, alloc_ota = $4, alloc_onsite = $5,
		    status = $6, updated_at = now()
		WHERE id = $1`

	alloc := p.Allocations()
	tag, err := r.db.Exec(ctx, query,
		p.ID(), p.SellableCap(), alloc.Online, alloc.OTA, alloc.Onsite, string(p.Status()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update product caps", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}
