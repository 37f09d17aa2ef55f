package queries

import (
	"context"

	"github.com/google/uuid"
)

type ProductQueries interface {
	Availability(ctx context.Context, productID uuid.UUID) (*ProductAvailabilityView, error)
}

type ProductViewRepo interface {
	FindAvailability(ctx context.Context, productID uuid.UUID) (*ProductAvailabilityView, error)
}

type productQueriesImpl struct {
	repo ProductViewRepo
}

func NewProductQueries(repo ProductViewRepo) ProductQueries {
	return &productQueriesImpl{repo: repo}
}

func (q *productQueriesImpl) Availability(ctx context.Context, productID uuid.UUID) (*ProductAvailabilityView, error) {
	return q.repo.FindAvailability(ctx, productID)
}
