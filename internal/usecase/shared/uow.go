package shared

import (
	"context"
	"time"

	"parkgate/internal/domain/lease"
	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/product"
	"parkgate/internal/domain/slot"
	"parkgate/internal/domain/ticket"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: direct access for validation reads outside transactions
	Reads() CommandReads
}

type Tx interface {
	Inventory() InventoryRepository
	Products() ProductRepository
	Leases() LeaseRepository
	Tickets() TicketRepository
	Slots() SlotRepository
	Bookings() BookingRepository
	Operators() OperatorRepository
}

type CommandReads interface {
	// DueLeaseIDs lists active reservations whose deadline has passed.
	DueLeaseIDs(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	OperatorByID(ctx context.Context, id uuid.UUID) (*operator.Operator, error)
	OperatorByUsername(ctx context.Context, username string) (*operator.Operator, error)
}

// InventoryRepository owns the capacity counters of a product. GetForUpdate
// must lock the counter row so the read-check-write cycle in the ledger is
// atomic per product.
type InventoryRepository interface {
	GetForUpdate(ctx context.Context, productID uuid.UUID) (*product.Ledger, error)
	Save(ctx context.Context, ledger *product.Ledger) error
	Init(ctx context.Context, productID uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, p *product.Product) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*product.Product, error)
	UpdateCaps(ctx context.Context, p *product.Product) error
}

type LeaseRepository interface {
	Create(ctx context.Context, r *lease.ChannelReservation) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*lease.ChannelReservation, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*lease.ChannelReservation, error)
	// UpdateStatus persists a transition out of `active` as a compare-and-set on
	// the previous status; it reports false when another writer won the race.
	UpdateStatus(ctx context.Context, r *lease.ChannelReservation, from lease.Status) (bool, error)
}

type TicketRepository interface {
	CreateBatch(ctx context.Context, tickets []*ticket.Ticket) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error)
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]*ticket.Ticket, error)
	Update(ctx context.Context, t *ticket.Ticket) error
}

type SlotRepository interface {
	Create(ctx context.Context, s *slot.ReservationSlot) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*slot.ReservationSlot, error)
	Save(ctx context.Context, s *slot.ReservationSlot) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *slot.TicketReservation) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*slot.TicketReservation, error)
	Update(ctx context.Context, b *slot.TicketReservation) error
}

type OperatorRepository interface {
	Create(ctx context.Context, o *operator.Operator) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*operator.Operator, error)
	Update(ctx context.Context, o *operator.Operator) error
}
