package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SlotQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	ListByVenueDate(ctx context.Context, venueID uuid.UUID, date time.Time) ([]*SlotView, error)
}

type SlotViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	FindByVenueDate(ctx context.Context, venueID uuid.UUID, date time.Time) ([]*SlotView, error)
}

type slotQueriesImpl struct {
	repo SlotViewRepo
}

func NewSlotQueries(repo SlotViewRepo) SlotQueries {
	return &slotQueriesImpl{repo: repo}
}

func (q *slotQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *slotQueriesImpl) ListByVenueDate(ctx context.Context, venueID uuid.UUID, date time.Time) ([]*SlotView, error) {
	return q.repo.FindByVenueDate(ctx, venueID, date)
}
