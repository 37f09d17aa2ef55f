//go:build e2e

package ticket_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"parkgate/internal/handler/dto/request"
	"parkgate/internal/handler/dto/response"
	"parkgate/tests/common/authtest"
	"parkgate/tests/common/dbtest"
	"parkgate/tests/common/httptest"
	"parkgate/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type TicketE2ETestSuite struct {
	e2e.SharedSuite
}

func TestTicketE2E(t *testing.T) {
	suite.Run(t, new(TicketE2ETestSuite))
}

func (s *TicketE2ETestSuite) loginStaff() string {
	return authtest.CreateAndLogin(s.T(), s.DB, s.Router, "staff", "internal", nil)
}

func (s *TicketE2ETestSuite) createSlot(capacity int) uuid.UUID {
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	return dbtest.CreateTestSlot(s.T(), s.DB, uuid.New(), start, start.Add(time.Hour), capacity)
}

// reserves and confirms payment, returning activated ticket IDs
func (s *TicketE2ETestSuite) activatedTickets(token string, productID uuid.UUID, qty int, channel string, partnerID *uuid.UUID) []uuid.UUID {
	w := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/reservations",
		request.ReserveRequest{
			ProductID:   productID,
			Channel:     channel,
			PartnerID:   partnerID,
			Quantity:    qty,
			CustomerRef: "guest-1",
		}, token, map[string]string{"Idempotency-Key": uuid.New().String()})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var reserved response.ReserveResponse
	s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &reserved))

	w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
		fmt.Sprintf("/api/reservations/%s/confirm", reserved.ReservationID),
		request.ConfirmPaymentRequest{OrderID: uuid.New()}, token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	return reserved.TicketIDs
}

func (s *TicketE2ETestSuite) bookSlot(token string, ticketID, slotID uuid.UUID) *response.BookSlotResponse {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
		fmt.Sprintf("/api/tickets/%s/booking", ticketID),
		request.BookSlotRequest{SlotID: slotID}, token)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var body response.BookSlotResponse
	s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &body))
	return &body
}

func (s *TicketE2ETestSuite) getTicket(token string, ticketID uuid.UUID) *response.TicketResponse {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
		fmt.Sprintf("/api/tickets/%s", ticketID), nil, token)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var body response.TicketResponse
	s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &body))
	return &body
}

func (s *TicketE2ETestSuite) TestAdmissionFlow() {
	s.Run("booked ticket is verified at the gate", func() {
		token := s.loginStaff()
		productID := dbtest.CreateTestProduct(s.T(), s.DB, "Day Pass", 10, 5, 3, 2)
		slotID := s.createSlot(5)

		ticketIDs := s.activatedTickets(token, productID, 1, "online", nil)
		s.Require().Len(ticketIDs, 1)
		ticketID := ticketIDs[0]

		s.bookSlot(token, ticketID, slotID)

		view := s.getTicket(token, ticketID)
		s.Require().Equal("reserved", view.Status)
		s.Require().NotNil(view.SlotBookingID)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf("/api/tickets/%s/verify", ticketID), nil, token)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		var verified response.VerifyResponse
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &verified))
		s.Require().False(verified.Replayed)

		// Verifying again keeps the first verification
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf("/api/tickets/%s/verify", ticketID), nil, token)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		var replay response.VerifyResponse
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &replay))
		s.Require().True(replay.Replayed)
		s.Require().Equal(verified.VerifiedAt, replay.VerifiedAt)

		view = s.getTicket(token, ticketID)
		s.Require().Equal("verified", view.Status)
		s.Require().NotNil(view.VerifiedBy)
	})

	s.Run("rebooking the same slot replays the booking", func() {
		token := s.loginStaff()
		productID := dbtest.CreateTestProduct(s.T(), s.DB, "Day Pass", 10, 5, 3, 2)
		slotID := s.createSlot(5)

		ticketID := s.activatedTickets(token, productID, 1, "online", nil)[0]
		first := s.bookSlot(token, ticketID, slotID)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf("/api/tickets/%s/booking", ticketID),
			request.BookSlotRequest{SlotID: slotID}, token)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		var second response.BookSlotResponse
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &second))
		s.Require().True(second.Replayed)
		s.Require().Equal(first.BookingID, second.BookingID)
	})

	s.Run("cancelling a booking frees the slot unit", func() {
		token := s.loginStaff()
		productID := dbtest.CreateTestProduct(s.T(), s.DB, "Day Pass", 10, 5, 3, 2)
		slotID := s.createSlot(1)

		ticketIDs := s.activatedTickets(token, productID, 2, "online", nil)
		booking := s.bookSlot(token, ticketIDs[0], slotID)

		// Slot is now full; the second ticket cannot book
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf("/api/tickets/%s/booking", ticketIDs[1]),
			request.BookSlotRequest{SlotID: slotID}, token)
		s.Require().Equal(http.StatusConflict, w.Code, w.Body.String())

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete,
			fmt.Sprintf("/api/bookings/%s", booking.BookingID), nil, token)
		s.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())

		view := s.getTicket(token, ticketIDs[0])
		s.Require().Equal("cancelled", view.Status)

		// Freed capacity lets the second ticket in
		s.bookSlot(token, ticketIDs[1], slotID)
	})

	s.Run("verified booking cannot be cancelled", func() {
		token := s.loginStaff()
		productID := dbtest.CreateTestProduct(s.T(), s.DB, "Day Pass", 10, 5, 3, 2)
		slotID := s.createSlot(5)

		ticketID := s.activatedTickets(token, productID, 1, "online", nil)[0]
		booking := s.bookSlot(token, ticketID, slotID)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf("/api/tickets/%s/verify", ticketID), nil, token)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete,
			fmt.Sprintf("/api/bookings/%s", booking.BookingID), nil, token)
		s.Require().Equal(http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("ota operator verifies only its own partner's tickets", func() {
		staffToken := s.loginStaff()
		partnerID := uuid.New()
		otherPartner := uuid.New()
		productID := dbtest.CreateTestProduct(s.T(), s.DB, "Day Pass", 10, 5, 3, 2)
		slotID := s.createSlot(5)

		ownTicket := s.activatedTickets(staffToken, productID, 1, "ota", &partnerID)[0]
		otherTicket := s.activatedTickets(staffToken, productID, 1, "ota", &otherPartner)[0]
		s.bookSlot(staffToken, ownTicket, slotID)
		s.bookSlot(staffToken, otherTicket, slotID)

		otaToken := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "gate-a", "ota", &partnerID)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf("/api/tickets/%s/verify", ownTicket), nil, otaToken)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf("/api/tickets/%s/verify", otherTicket), nil, otaToken)
		s.Require().Equal(http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("pending ticket cannot book a slot", func() {
		token := s.loginStaff()
		productID := dbtest.CreateTestProduct(s.T(), s.DB, "Day Pass", 10, 5, 3, 2)
		slotID := s.createSlot(5)

		w := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/reservations",
			request.ReserveRequest{
				ProductID:   productID,
				Channel:     "online",
				Quantity:    1,
				CustomerRef: "guest-1",
			}, token, map[string]string{"Idempotency-Key": uuid.New().String()})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

		var reserved response.ReserveResponse
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &reserved))

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			fmt.Sprintf("/api/tickets/%s/booking", reserved.TicketIDs[0]),
			request.BookSlotRequest{SlotID: slotID}, token)
		s.Require().Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})
}
