//go:build e2e

package admin_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"parkgate/internal/handler/dto/request"
	"parkgate/internal/handler/dto/response"
	"parkgate/tests/common/authtest"
	"parkgate/tests/common/httptest"
	"parkgate/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AdminE2ETestSuite struct {
	e2e.SharedSuite
}

func TestAdminE2E(t *testing.T) {
	suite.Run(t, new(AdminE2ETestSuite))
}

func (s *AdminE2ETestSuite) loginStaff() string {
	return authtest.CreateAndLogin(s.T(), s.DB, s.Router, "staff", "internal", nil)
}

func (s *AdminE2ETestSuite) createProduct(token string, cap, online, ota, onsite int) uuid.UUID {
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/products",
		request.CreateProductRequest{
			Name:        "Day Pass",
			SellableCap: cap,
			Allocations: request.ChannelAllocationsRequest{Online: online, OTA: ota, Onsite: onsite},
		}, token)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var body response.CreatedResponse
	s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &body))
	return body.ID
}

func (s *AdminE2ETestSuite) TestAdminOperations() {
	s.Run("product created over the API is sellable", func() {
		token := s.loginStaff()
		productID := s.createProduct(token, 10, 5, 3, 2)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			fmt.Sprintf("/api/products/%s/availability", productID), nil, token)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		var avail response.AvailabilityResponse
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &avail))
		s.Require().Equal(10, avail.SellableCap)
		s.Require().Equal(10, avail.Available)
		s.Require().Len(avail.Channels, 3)
	})

	s.Run("quotas may oversubscribe the cap", func() {
		token := s.loginStaff()
		productID := s.createProduct(token, 5, 4, 4, 0)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			fmt.Sprintf("/api/products/%s/availability", productID), nil, token)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		var avail response.AvailabilityResponse
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &avail))
		s.Require().Equal(5, avail.SellableCap)
		s.Require().Equal(5, avail.Available)
	})

	s.Run("caps can be adjusted above current usage", func() {
		token := s.loginStaff()
		productID := s.createProduct(token, 10, 5, 3, 2)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPut,
			fmt.Sprintf("/api/admin/products/%s/caps", productID),
			request.AdjustCapsRequest{
				SellableCap: 20,
				Allocations: request.ChannelAllocationsRequest{Online: 10, OTA: 6, Onsite: 4},
			}, token)
		s.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			fmt.Sprintf("/api/products/%s/availability", productID), nil, token)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		var avail response.AvailabilityResponse
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &avail))
		s.Require().Equal(20, avail.SellableCap)
	})

	s.Run("slot created over the API is listable", func() {
		token := s.loginStaff()
		start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/slots",
			request.CreateSlotRequest{
				VenueID:  uuid.New(),
				Date:     start.Truncate(24 * time.Hour),
				Start:    start,
				End:      start.Add(time.Hour),
				Capacity: 50,
			}, token)
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

		var created response.CreatedResponse
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &created))

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			fmt.Sprintf("/api/slots/%s", created.ID), nil, token)
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

		var slot response.SlotResponse
		s.Require().NoError(httptest.DecodeResponseBody(s.T(), w.Body, &slot))
		s.Require().Equal(50, slot.Capacity)
		s.Require().Equal("active", slot.Status)
	})

	s.Run("duplicate slot for a venue and start time is rejected", func() {
		token := s.loginStaff()
		start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
		slotReq := request.CreateSlotRequest{
			VenueID:  uuid.New(),
			Date:     start.Truncate(24 * time.Hour),
			Start:    start,
			End:      start.Add(time.Hour),
			Capacity: 50,
		}

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/slots", slotReq, token)
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

		slotReq.Capacity = 80
		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/slots", slotReq, token)
		s.Require().Equal(http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("reserve after a cap shrink respects the new ceiling", func() {
		token := s.loginStaff()
		productID := s.createProduct(token, 10, 10, 0, 0)

		w := httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/reservations",
			request.ReserveRequest{
				ProductID:   productID,
				Channel:     "online",
				Quantity:    6,
				CustomerRef: "guest-1",
			}, token, map[string]string{"Idempotency-Key": "shrink-key-1"})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

		w = httptest.PerformRequest(s.T(), s.Router, http.MethodPut,
			fmt.Sprintf("/api/admin/products/%s/caps", productID),
			request.AdjustCapsRequest{
				SellableCap: 6,
				Allocations: request.ChannelAllocationsRequest{Online: 10},
			}, token)
		s.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())

		w = httptest.PerformRequestWithHeaders(s.T(), s.Router, http.MethodPost, "/api/reservations",
			request.ReserveRequest{
				ProductID:   productID,
				Channel:     "online",
				Quantity:    1,
				CustomerRef: "guest-1",
			}, token, map[string]string{"Idempotency-Key": "shrink-key-2"})
		s.Require().Equal(http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("created operator can log in", func() {
		token := s.loginStaff()

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/operators",
			request.CreateOperatorRequest{
				Username: "gate-crew",
				Password: "secret-password",
				Type:     "internal",
			}, token)
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

		crewToken := authtest.LoginOperator(s.T(), s.Router, "gate-crew", "secret-password")
		s.Require().NotEmpty(crewToken)
	})

	s.Run("ota operator without a partner is rejected", func() {
		token := s.loginStaff()

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/operators",
			request.CreateOperatorRequest{
				Username: "gate-b",
				Password: "secret-password",
				Type:     "ota",
			}, token)
		s.Require().Equal(http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("non-internal operators cannot reach admin endpoints", func() {
		partnerID := uuid.New()
		otaToken := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "gate-c", "ota", &partnerID)

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/admin/products",
			request.CreateProductRequest{
				Name:        "Day Pass",
				SellableCap: 10,
				Allocations: request.ChannelAllocationsRequest{Online: 5, OTA: 3, Onsite: 2},
			}, otaToken)
		s.Require().Equal(http.StatusForbidden, w.Code, w.Body.String())
	})
}
