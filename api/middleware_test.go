package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/service/payment"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBearerToken(t *testing.T) {
	token, err := bearerToken("Bearer abc.def")
	assert.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = bearerToken("")
	assert.ErrorIs(t, err, errMissingAuthHeader)

	for _, header := range []string{"Bearer", "Token abc", "Bearer a b", "Bearer "} {
		_, err = bearerToken(header)
		assert.ErrorIs(t, err, errInvalidAuthHeader, header)
	}
}

func TestOptionalSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := &MockIdentityUseCase{}
	auth.On("Authenticate", mock.Anything, "good").Return(&domain.Session{UserID: "u1", IsStudent: true}, nil)
	auth.On("Authenticate", mock.Anything, "bad").Return(nil, errors.New("expired"))

	router := gin.New()
	router.GET("/whoami", OptionalSession(auth), func(c *gin.Context) {
		session, ok := sessionFrom(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, session.UserID)
	})

	for header, want := range map[string]string{
		"":            "anonymous",
		"Bearer bad":  "anonymous",
		"Bearer good": "u1",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, w.Body.String(), header)
	}
}

func TestFail_HidesInternalErrors(t *testing.T) {
	c, w := newTestContext("GET", "/bookings")

	fail(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, errInternal.Error(), env.Error)
}

func TestStatusFor_PaymentErrors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(payment.ErrProviderMismatch))
	assert.Equal(t, http.StatusBadRequest, statusFor(payment.ErrInvalidSignature))
	assert.Equal(t, http.StatusNotFound, statusFor(payment.ErrPaymentNotFound))
}

func TestBindJSON_ReportsValidationError(t *testing.T) {
	c, w := newJSONContext("POST", "/auth/password-reset", emailRequest{Email: "nobody"})

	var req emailRequest
	assert.False(t, bindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Error, errBadRequest.Error())
}
