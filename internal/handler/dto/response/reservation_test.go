//go:build unit

package response_test

import (
	"testing"
	"time"

	"parkgate/internal/handler/dto/response"
	"parkgate/internal/usecase/commands"
	"parkgate/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

var cmpOpts = []cmp.Option{
	cmpopts.EquateEmpty(),
}

func TestFromReserveResult(t *testing.T) {
	result := &commands.ReserveResult{
		ReservationID: uuid.New(),
		ExpiresAt:     time.Date(2025, 6, 1, 10, 15, 0, 0, time.UTC),
		TicketIDs:     []uuid.UUID{uuid.New(), uuid.New()},
		Replayed:      true,
	}

	actual := response.FromReserveResult(result)

	expected := &response.ReserveResponse{
		ReservationID: result.ReservationID,
		ExpiresAt:     result.ExpiresAt,
		TicketIDs:     result.TicketIDs,
		Replayed:      true,
	}
	if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
		t.Errorf("ReserveResponse mismatch (-want +got):\n%s", diff)
	}
}

func TestFromReservationView(t *testing.T) {
	orderID := uuid.New()
	view := &queries.ReservationView{
		ID:             uuid.New(),
		ProductID:      uuid.New(),
		ProductName:    "day pass",
		Channel:        "online",
		Quantity:       2,
		Status:         "activated",
		ExpiresAt:      time.Date(2025, 6, 1, 10, 15, 0, 0, time.UTC),
		OrderID:        &orderID,
		IdempotencyKey: "key-1",
		TicketIDs:      []uuid.UUID{uuid.New()},
		CreatedAt:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:      time.Date(2025, 6, 1, 10, 5, 0, 0, time.UTC),
	}

	actual := response.FromReservationView(view)

	expected := &response.ReservationResponse{
		ID:             view.ID,
		ProductID:      view.ProductID,
		ProductName:    view.ProductName,
		Channel:        view.Channel,
		Quantity:       view.Quantity,
		Status:         view.Status,
		ExpiresAt:      view.ExpiresAt,
		OrderID:        view.OrderID,
		IdempotencyKey: view.IdempotencyKey,
		TicketIDs:      view.TicketIDs,
		CreatedAt:      view.CreatedAt,
		UpdatedAt:      view.UpdatedAt,
	}
	if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
		t.Errorf("ReservationResponse mismatch (-want +got):\n%s", diff)
	}
}
