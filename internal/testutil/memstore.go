package testutil

import (
	"context"
	"sync"
	"time"

	"parkgate/internal/domain/lease"
	"parkgate/internal/domain/operator"
	"parkgate/internal/domain/product"
	"parkgate/internal/domain/slot"
	"parkgate/internal/domain/ticket"
	"parkgate/internal/infra"
	"parkgate/internal/usecase/shared"

	"github.com/google/uuid"
)

// MemStore is an in-memory shared.UnitOfWork for unit tests. A single mutex
// serializes Within, standing in for the row locks the real store takes, so
// concurrent command invocations exercise the same interleavings the database
// would allow. There is no rollback: commands are expected to validate before
// they mutate.
type MemStore struct {
	mu sync.Mutex

	products  map[uuid.UUID]*product.Product
	ledgers   map[uuid.UUID]*product.Ledger
	leases    map[uuid.UUID]*lease.ChannelReservation
	leaseKeys map[string]uuid.UUID
	tickets   map[uuid.UUID]*ticket.Ticket
	slots     map[uuid.UUID]*slot.ReservationSlot
	bookings  map[uuid.UUID]*slot.TicketReservation
	operators map[uuid.UUID]*operator.Operator
}

func NewMemStore() *MemStore {
	return &MemStore{
		products:  make(map[uuid.UUID]*product.Product),
		ledgers:   make(map[uuid.UUID]*product.Ledger),
		leases:    make(map[uuid.UUID]*lease.ChannelReservation),
		leaseKeys: make(map[string]uuid.UUID),
		tickets:   make(map[uuid.UUID]*ticket.Ticket),
		slots:     make(map[uuid.UUID]*slot.ReservationSlot),
		bookings:  make(map[uuid.UUID]*slot.TicketReservation),
		operators: make(map[uuid.UUID]*operator.Operator),
	}
}

func (s *MemStore) Within(_ context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.Background(), &memTx{store: s})
}

func (s *MemStore) Reads() shared.CommandReads {
	return &memReads{store: s}
}

// Seed helpers install state directly, bypassing command validation.

func (s *MemStore) SeedProduct(p *product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID()] = cloneProduct(p)
	s.ledgers[p.ID()] = product.NewLedger(p)
}

func (s *MemStore) SeedOperator(o *operator.Operator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators[o.ID()] = cloneOperator(o)
}

func (s *MemStore) SeedSlot(sl *slot.ReservationSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[sl.ID()] = cloneSlot(sl)
}

func (s *MemStore) SeedTicket(t *ticket.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[t.ID()] = cloneTicket(t)
}

func (s *MemStore) SeedBooking(b *slot.TicketReservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID()] = cloneBooking(b)
}

func (s *MemStore) SeedLease(r *lease.ChannelReservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leases[r.ID()] = cloneLease(r)
	s.leaseKeys[r.IdempotencyKey()] = r.ID()
}

// Snapshot accessors for assertions.

func (s *MemStore) Ledger(productID uuid.UUID) *product.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLedger(s.ledgers[productID])
}

func (s *MemStore) Lease(id uuid.UUID) *lease.ChannelReservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.leases[id]; ok {
		return cloneLease(r)
	}
	return nil
}

func (s *MemStore) Ticket(id uuid.UUID) *ticket.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tickets[id]; ok {
		return cloneTicket(t)
	}
	return nil
}

func (s *MemStore) Slot(id uuid.UUID) *slot.ReservationSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.slots[id]; ok {
		return cloneSlot(sl)
	}
	return nil
}

func (s *MemStore) Booking(id uuid.UUID) *slot.TicketReservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.bookings[id]; ok {
		return cloneBooking(b)
	}
	return nil
}

func (s *MemStore) TicketsByReservation(reservationID uuid.UUID) []*ticket.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticketsByReservationLocked(reservationID)
}

func (s *MemStore) ticketsByReservationLocked(reservationID uuid.UUID) []*ticket.Ticket {
	var out []*ticket.Ticket
	for _, t := range s.tickets {
		if t.ReservationID() == reservationID {
			out = append(out, cloneTicket(t))
		}
	}
	return out
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

type memTx struct {
	store *MemStore
}

func (t *memTx) Inventory() shared.InventoryRepository { return &memInventoryRepo{t.store} }
func (t *memTx) Products() shared.ProductRepository    { return &memProductRepo{t.store} }
func (t *memTx) Leases() shared.LeaseRepository        { return &memLeaseRepo{t.store} }
func (t *memTx) Tickets() shared.TicketRepository      { return &memTicketRepo{t.store} }
func (t *memTx) Slots() shared.SlotRepository          { return &memSlotRepo{t.store} }
func (t *memTx) Bookings() shared.BookingRepository    { return &memBookingRepo{t.store} }
func (t *memTx) Operators() shared.OperatorRepository  { return &memOperatorRepo{t.store} }

type memInventoryRepo struct{ store *MemStore }

func (r *memInventoryRepo) GetForUpdate(_ context.Context, productID uuid.UUID) (*product.Ledger, error) {
	l, ok := r.store.ledgers[productID]
	if !ok {
		return nil, notFound("product inventory not found")
	}
	return cloneLedger(l), nil
}

func (r *memInventoryRepo) Save(_ context.Context, ledger *product.Ledger) error {
	if _, ok := r.store.ledgers[ledger.ProductID()]; !ok {
		return notFound("product inventory not found")
	}
	r.store.ledgers[ledger.ProductID()] = cloneLedger(ledger)
	return nil
}

func (r *memInventoryRepo) Init(_ context.Context, productID uuid.UUID) error {
	p, ok := r.store.products[productID]
	if !ok {
		return infra.WrapRepoErr("product not found", nil, infra.KindForeignKeyViolated)
	}
	r.store.ledgers[productID] = product.NewLedger(p)
	return nil
}

type memProductRepo struct{ store *MemStore }

func (r *memProductRepo) Create(_ context.Context, p *product.Product) error {
	r.store.products[p.ID()] = cloneProduct(p)
	return nil
}

func (r *memProductRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*product.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, notFound("product not found")
	}
	return cloneProduct(p), nil
}

func (r *memProductRepo) UpdateCaps(_ context.Context, p *product.Product) error {
	if _, ok := r.store.products[p.ID()]; !ok {
		return notFound("product not found")
	}
	r.store.products[p.ID()] = cloneProduct(p)

	// Ledger bounds follow the product's ceilings.
	if l, ok := r.store.ledgers[p.ID()]; ok {
		r.store.ledgers[p.ID()] = product.ReconstructLedger(
			p.ID(), p.SellableCap(), p.Allocations(), p.IsActive(), l.Usage(),
		)
	}
	return nil
}

type memLeaseRepo struct{ store *MemStore }

func (r *memLeaseRepo) Create(_ context.Context, res *lease.ChannelReservation) error {
	if _, exists := r.store.leaseKeys[res.IdempotencyKey()]; exists {
		return infra.WrapRepoErr("duplicate idempotency key", nil, infra.KindDuplicateKey)
	}
	r.store.leases[res.ID()] = cloneLease(res)
	r.store.leaseKeys[res.IdempotencyKey()] = res.ID()
	return nil
}

func (r *memLeaseRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*lease.ChannelReservation, error) {
	res, ok := r.store.leases[id]
	if !ok {
		return nil, notFound("channel reservation not found")
	}
	return cloneLease(res), nil
}

func (r *memLeaseRepo) FindByIdempotencyKey(_ context.Context, key string) (*lease.ChannelReservation, error) {
	id, ok := r.store.leaseKeys[key]
	if !ok {
		return nil, notFound("channel reservation not found")
	}
	return cloneLease(r.store.leases[id]), nil
}

func (r *memLeaseRepo) UpdateStatus(_ context.Context, res *lease.ChannelReservation, from lease.Status) (bool, error) {
	stored, ok := r.store.leases[res.ID()]
	if !ok {
		return false, notFound("channel reservation not found")
	}
	if stored.Status() != from {
		return false, nil
	}
	r.store.leases[res.ID()] = cloneLease(res)
	return true, nil
}

type memTicketRepo struct{ store *MemStore }

func (r *memTicketRepo) CreateBatch(_ context.Context, tickets []*ticket.Ticket) error {
	for _, t := range tickets {
		r.store.tickets[t.ID()] = cloneTicket(t)
	}
	return nil
}

func (r *memTicketRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	t, ok := r.store.tickets[id]
	if !ok {
		return nil, notFound("ticket not found")
	}
	return cloneTicket(t), nil
}

func (r *memTicketRepo) ListByReservation(_ context.Context, reservationID uuid.UUID) ([]*ticket.Ticket, error) {
	return r.store.ticketsByReservationLocked(reservationID), nil
}

func (r *memTicketRepo) Update(_ context.Context, t *ticket.Ticket) error {
	if _, ok := r.store.tickets[t.ID()]; !ok {
		return notFound("ticket not found")
	}
	r.store.tickets[t.ID()] = cloneTicket(t)
	return nil
}

type memSlotRepo struct{ store *MemStore }

func (r *memSlotRepo) Create(_ context.Context, s *slot.ReservationSlot) error {
	for _, existing := range r.store.slots {
		if existing.VenueID() == s.VenueID() &&
			existing.Date().Equal(s.Date()) &&
			existing.StartTime().Equal(s.StartTime()) {
			return infra.WrapRepoErr("duplicate reservation slot", nil, infra.KindDuplicateKey)
		}
	}
	r.store.slots[s.ID()] = cloneSlot(s)
	return nil
}

func (r *memSlotRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*slot.ReservationSlot, error) {
	s, ok := r.store.slots[id]
	if !ok {
		return nil, notFound("reservation slot not found")
	}
	return cloneSlot(s), nil
}

func (r *memSlotRepo) Save(_ context.Context, s *slot.ReservationSlot) error {
	if _, ok := r.store.slots[s.ID()]; !ok {
		return notFound("reservation slot not found")
	}
	r.store.slots[s.ID()] = cloneSlot(s)
	return nil
}

type memBookingRepo struct{ store *MemStore }

func (r *memBookingRepo) Create(_ context.Context, b *slot.TicketReservation) error {
	r.store.bookings[b.ID()] = cloneBooking(b)
	return nil
}

func (r *memBookingRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*slot.TicketReservation, error) {
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, notFound("slot booking not found")
	}
	return cloneBooking(b), nil
}

func (r *memBookingRepo) Update(_ context.Context, b *slot.TicketReservation) error {
	if _, ok := r.store.bookings[b.ID()]; !ok {
		return notFound("slot booking not found")
	}
	r.store.bookings[b.ID()] = cloneBooking(b)
	return nil
}

type memOperatorRepo struct{ store *MemStore }

func (r *memOperatorRepo) Create(_ context.Context, o *operator.Operator) error {
	for _, existing := range r.store.operators {
		if existing.Username() == o.Username() {
			return infra.WrapRepoErr("duplicate username", nil, infra.KindDuplicateKey)
		}
	}
	r.store.operators[o.ID()] = cloneOperator(o)
	return nil
}

func (r *memOperatorRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*operator.Operator, error) {
	o, ok := r.store.operators[id]
	if !ok {
		return nil, notFound("operator not found")
	}
	return cloneOperator(o), nil
}

func (r *memOperatorRepo) Update(_ context.Context, o *operator.Operator) error {
	if _, ok := r.store.operators[o.ID()]; !ok {
		return notFound("operator not found")
	}
	r.store.operators[o.ID()] = cloneOperator(o)
	return nil
}

type memReads struct{ store *MemStore }

func (r *memReads) DueLeaseIDs(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var ids []uuid.UUID
	for id, res := range r.store.leases {
		if res.IsActive() && res.IsDueAt(now) {
			ids = append(ids, id)
			if len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

func (r *memReads) OperatorByID(_ context.Context, id uuid.UUID) (*operator.Operator, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.operators[id]
	if !ok {
		return nil, notFound("operator not found")
	}
	return cloneOperator(o), nil
}

func (r *memReads) OperatorByUsername(_ context.Context, username string) (*operator.Operator, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, o := range r.store.operators {
		if o.Username() == username {
			return cloneOperator(o), nil
		}
	}
	return nil, notFound("operator not found")
}

// Clones keep transaction-local mutations from leaking into the store before
// the repository's Save/Update is called, mirroring real persistence.

func cloneProduct(p *product.Product) *product.Product {
	return product.ReconstructProduct(
		p.ID(), p.Name(), p.SellableCap(), p.Allocations(), p.Status(),
		p.CreatedAt(), p.UpdatedAt(),
	)
}

func cloneLedger(l *product.Ledger) *product.Ledger {
	if l == nil {
		return nil
	}
	return product.ReconstructLedger(
		l.ProductID(), l.SellableCap(), l.Allocations(), l.Active(), l.Usage(),
	)
}

func cloneLease(r *lease.ChannelReservation) *lease.ChannelReservation {
	return lease.ReconstructChannelReservation(
		r.ID(), r.ProductID(), r.Channel(), r.PartnerID(), r.Quantity(),
		r.Status(), r.ExpiresAt(), r.OrderID(), r.IdempotencyKey(),
		r.CreatedAt(), r.UpdatedAt(),
	)
}

func cloneTicket(t *ticket.Ticket) *ticket.Ticket {
	return ticket.Reconstruct(
		t.ID(), t.ReservationID(), t.OrderID(), t.ProductID(), t.Channel(),
		t.PartnerID(), t.CustomerRef(), t.SlotBookingID(), t.ExpiresAt(),
		t.VerifiedBy(), t.VerifiedAt(), t.Status(), t.CreatedAt(), t.UpdatedAt(),
	)
}

func cloneSlot(s *slot.ReservationSlot) *slot.ReservationSlot {
	return slot.ReconstructReservationSlot(
		s.ID(), s.VenueID(), s.Date(), s.StartTime(), s.EndTime(),
		s.Capacity(), s.BookedCount(), s.Status(), s.CreatedAt(), s.UpdatedAt(),
	)
}

func cloneBooking(b *slot.TicketReservation) *slot.TicketReservation {
	return slot.ReconstructTicketReservation(
		b.ID(), b.TicketID(), b.SlotID(), b.Status(), b.CreatedAt(), b.UpdatedAt(),
	)
}

func cloneOperator(o *operator.Operator) *operator.Operator {
	return operator.Reconstruct(
		o.ID(), o.Username(), o.PasswordHash(), o.OperatorType(), o.PartnerID(),
		o.State(), o.CreatedAt(), o.UpdatedAt(),
	)
}
