package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSlotFull        = errors.New("slot is full")
	ErrSlotClosed      = errors.New("slot is closed")
	ErrInvalidCapacity = errors.New("slot capacity must be positive")
	ErrInvalidWindow   = errors.New("slot start must be before end")
	ErrNothingBooked   = errors.New("slot has no booked units")
)

// ReservationSlot is a fixed-capacity time bucket at a venue. The booked
// counter is authoritative; the FULL status is a cached hint kept in step by
// Book/ReleaseBooking but never trusted for the capacity decision.
type ReservationSlot struct {
	id          uuid.UUID
	venueID     uuid.UUID
	date        time.Time
	startTime   time.Time
	endTime     time.Time
	capacity    int
	bookedCount int
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func NewReservationSlot(venueID uuid.UUID, date, start, end time.Time, capacity int) (*ReservationSlot, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if !start.Before(end) {
		return nil, ErrInvalidWindow
	}

	return &ReservationSlot{
		id:        uuid.New(),
		venueID:   venueID,
		date:      date,
		startTime: start,
		endTime:   end,
		capacity:  capacity,
		status:    StatusActive,
	}, nil
}

func ReconstructReservationSlot(
	id, venueID uuid.UUID,
	date, start, end time.Time,
	capacity, bookedCount int,
	status Status,
	createdAt, updatedAt time.Time,
) *ReservationSlot {
	return &ReservationSlot{
		id:          id,
		venueID:     venueID,
		date:        date,
		startTime:   start,
		endTime:     end,
		capacity:    capacity,
		bookedCount: bookedCount,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *ReservationSlot) ID() uuid.UUID        { return s.id }
func (s *ReservationSlot) VenueID() uuid.UUID   { return s.venueID }
func (s *ReservationSlot) Date() time.Time      { return s.date }
func (s *ReservationSlot) StartTime() time.Time { return s.startTime }
func (s *ReservationSlot) EndTime() time.Time   { return s.endTime }
func (s *ReservationSlot) Capacity() int        { return s.capacity }
func (s *ReservationSlot) BookedCount() int     { return s.bookedCount }
func (s *ReservationSlot) Status() Status       { return s.status }
func (s *ReservationSlot) CreatedAt() time.Time { return s.createdAt }
func (s *ReservationSlot) UpdatedAt() time.Time { return s.updatedAt }

// Book claims one unit. The counter check decides; the status flag only gates
// explicitly closed slots.
func (s *ReservationSlot) Book() error {
	if s.status == StatusClosed {
		return ErrSlotClosed
	}
	if s.bookedCount >= s.capacity {
		return ErrSlotFull
	}
	s.bookedCount++
	if s.bookedCount == s.capacity && s.status == StatusActive {
		s.status = StatusFull
	}
	return nil
}

// ReleaseBooking returns one unit on booking cancellation. Verification never
// calls this: a verified booking consumes its unit permanently.
func (s *ReservationSlot) ReleaseBooking() error {
	if s.bookedCount <= 0 {
		return ErrNothingBooked
	}
	s.bookedCount--
	if s.status == StatusFull {
		s.status = StatusActive
	}
	return nil
}

func (s *ReservationSlot) Close() {
	s.status = StatusClosed
}
