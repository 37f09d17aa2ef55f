//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"parkgate/internal/handler/dto/request"
	"parkgate/internal/handler/dto/response"
	"parkgate/tests/common/dbtest"
	"parkgate/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func LoginOperator(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Username: username, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body response.LoginResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
	require.NotEmpty(t, body.AccessToken, "Access token is empty")

	return body.AccessToken
}

func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, username, operatorType string, partnerID *uuid.UUID) string {
	t.Helper()
	dbtest.CreateTestOperator(t, db, username, operatorType, partnerID)
	return LoginOperator(t, router, username, dbtest.TestPassword)
}
