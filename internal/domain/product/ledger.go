package product

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrChannelQuotaExceeded = errors.New("channel quota exceeded")
	ErrGlobalCapExceeded    = errors.New("sellable cap exceeded")
	ErrProductInactive      = errors.New("product is not active")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
)

// Ledger is the capacity accounting aggregate for a single product. It is
// loaded under a row lock, mutated in memory and written back inside the same
// transaction, so every check-and-reserve is a single atomic unit.
//
// Idempotency of Commit/Release is not the ledger's job: the lease status
// compare-and-set upstream guarantees each lease moves its quantity at most
// once, so these methods are plain counter arithmetic.
type Ledger struct {
	productID   uuid.UUID
	sellableCap int
	allocations ChannelAllocations
	active      bool
	usage       Usage
}

func NewLedger(p *Product) *Ledger {
	return &Ledger{
		productID:   p.ID(),
		sellableCap: p.SellableCap(),
		allocations: p.Allocations(),
		active:      p.IsActive(),
	}
}

func ReconstructLedger(
	productID uuid.UUID,
	sellableCap int,
	allocations ChannelAllocations,
	active bool,
	usage Usage,
) *Ledger {
	return &Ledger{
		productID:   productID,
		sellableCap: sellableCap,
		allocations: allocations,
		active:      active,
		usage:       usage,
	}
}

func (l *Ledger) ProductID() uuid.UUID            { return l.productID }
func (l *Ledger) SellableCap() int                { return l.sellableCap }
func (l *Ledger) Allocations() ChannelAllocations { return l.allocations }
func (l *Ledger) Active() bool                    { return l.active }
func (l *Ledger) Usage() Usage                    { return l.usage }
func (l *Ledger) SoldCount() int                  { return l.usage.TotalSold() }
func (l *Ledger) TotalHeld() int                  { return l.usage.TotalHeld() }

func (l *Ledger) Available() int {
	return l.sellableCap - l.usage.TotalSold() - l.usage.TotalHeld()
}

// TryReserve checks the channel sub-quota, then the global cap, then product
// status, and reports the first violated bound. Counters are only touched when
// every check passes.
func (l *Ledger) TryReserve(ch Channel, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	quota, err := l.allocations.Quota(ch)
	if err != nil {
		return err
	}
	counters, err := l.usage.counters(ch)
	if err != nil {
		return err
	}

	if counters.Sold+counters.Held+quantity > quota {
		return ErrChannelQuotaExceeded
	}
	if l.usage.TotalSold()+l.usage.TotalHeld()+quantity > l.sellableCap {
		return ErrGlobalCapExceeded
	}
	if !l.active {
		return ErrProductInactive
	}

	counters.Held += quantity
	return nil
}

// Commit moves held units into the committed count.
func (l *Ledger) Commit(ch Channel, quantity int) error {
	counters, err := l.usage.counters(ch)
	if err != nil {
		return err
	}
	counters.Held -= quantity
	if counters.Held < 0 {
		counters.Held = 0
	}
	counters.Sold += quantity
	return nil
}

// Release returns held units to available capacity. Committed units are never
// released here; only an explicit refund flow may decrement the sold count.
func (l *Ledger) Release(ch Channel, quantity int) error {
	counters, err := l.usage.counters(ch)
	if err != nil {
		return err
	}
	counters.Held -= quantity
	if counters.Held < 0 {
		counters.Held = 0
	}
	return nil
}
