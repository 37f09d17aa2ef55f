package queries

import (
	"context"

	"github.com/google/uuid"
)

type TicketQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*TicketView, error)
	ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]*TicketView, error)
}

type TicketViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TicketView, error)
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) ([]*TicketView, error)
}

type ticketQueriesImpl struct {
	repo TicketViewRepo
}

func NewTicketQueries(repo TicketViewRepo) TicketQueries {
	return &ticketQueriesImpl{repo: repo}
}

func (q *ticketQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*TicketView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *ticketQueriesImpl) ListByReservation(ctx context.Context, reservationID uuid.UUID) ([]*TicketView, error) {
	return q.repo.FindByReservationID(ctx, reservationID)
}
