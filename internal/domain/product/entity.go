package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("product name must not be empty")
	ErrCapBelowInUse   = errors.New("sellable cap below committed and held units")
	ErrQuotaBelowInUse = errors.New("channel allocation below committed and held units")
)

// Product is the sellable offering. Capacity counters live on the Ledger;
// the product itself only carries the configured ceilings.
type Product struct {
	id          uuid.UUID
	name        string
	sellableCap int
	allocations ChannelAllocations
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func NewProduct(name string, sellableCap int, allocations ChannelAllocations) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if sellableCap < 0 {
		return nil, ErrInvalidCap
	}

	return &Product{
		id:          uuid.New(),
		name:        name,
		sellableCap: sellableCap,
		allocations: allocations,
		status:      StatusActive,
	}, nil
}

func ReconstructProduct(
	id uuid.UUID,
	name string,
	sellableCap int,
	allocations ChannelAllocations,
	status Status,
	createdAt, updatedAt time.Time,
) *Product {
	return &Product{
		id:          id,
		name:        name,
		sellableCap: sellableCap,
		allocations: allocations,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p *Product) ID() uuid.UUID                   { return p.id }
func (p *Product) Name() string                    { return p.name }
func (p *Product) SellableCap() int                { return p.sellableCap }
func (p *Product) Allocations() ChannelAllocations { return p.allocations }
func (p *Product) Status() Status                  { return p.status }
func (p *Product) CreatedAt() time.Time            { return p.createdAt }
func (p *Product) UpdatedAt() time.Time            { return p.updatedAt }

func (p *Product) IsActive() bool {
	return p.status == StatusActive
}

func (p *Product) Deactivate() {
	p.status = StatusInactive
}

func (p *Product) Activate() {
	p.status = StatusActive
}

// AdjustCaps replaces the ceilings, re-validating against the current usage so a
// shrink can never drop below what is already committed or held.
func (p *Product) AdjustCaps(sellableCap int, allocations ChannelAllocations, usage Usage) error {
	if sellableCap < 0 {
		return ErrInvalidCap
	}
	if usage.TotalSold()+usage.TotalHeld() > sellableCap {
		return ErrCapBelowInUse
	}
	for _, ch := range Channels() {
		quota, err := allocations.Quota(ch)
		if err != nil {
			return err
		}
		counters, err := usage.counters(ch)
		if err != nil {
			return err
		}
		if counters.Sold+counters.Held > quota {
			return ErrQuotaBelowInUse
		}
	}

	p.sellableCap = sellableCap
	p.allocations = allocations
	return nil
}
