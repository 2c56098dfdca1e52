package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/Domenick1991/travelease/internal/assistant"
	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/gateway"
	"github.com/Domenick1991/travelease/internal/geo"
	"github.com/Domenick1991/travelease/internal/identity"
	"github.com/Domenick1991/travelease/internal/pricing"
	"github.com/Domenick1991/travelease/internal/responses"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/Domenick1991/travelease/internal/service/payment"
	"github.com/Domenick1991/travelease/internal/service/trains"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

var (
	errMissingAuthHeader = errors.New("missing Authorization header")
	errInvalidAuthHeader = errors.New("invalid Authorization format")
	errBadRequest        = errors.New("invalid request")
	errInternal          = errors.New("something went wrong, please try again")
)

// Authenticator turns a bearer token into the caller's session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// RequireSession rejects requests without a valid bearer token.
func RequireSession(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			responses.AbortFail(c, http.StatusUnauthorized, err)
			return
		}
		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			responses.AbortFail(c, http.StatusUnauthorized, identity.ErrInvalidToken)
			return
		}
		c.Set(sessionKey, *session)
		c.Next()
	}
}

// OptionalSession attaches a session when a valid token is present and
// lets anonymous requests through.
func OptionalSession(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := bearerToken(c.GetHeader("Authorization")); err == nil {
			if session, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, *session)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingAuthHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errInvalidAuthHeader
	}
	return parts[1], nil
}

func sessionFrom(c *gin.Context) (domain.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	session, ok := v.(domain.Session)
	return session, ok
}

// mustSession is used behind RequireSession; a missing session still
// answers 401 rather than panicking.
func mustSession(c *gin.Context) (domain.Session, bool) {
	session, ok := sessionFrom(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, identity.ErrInvalidToken)
	}
	return session, ok
}

// bindJSON binds and validates the request body, answering 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		responses.Fail(c, http.StatusBadRequest, fmt.Errorf("%w: %v", errBadRequest, err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		responses.Fail(c, http.StatusBadRequest, fmt.Errorf("%w: %v", errBadRequest, err))
		return false
	}
	return true
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		err = errInternal
	}
	responses.Fail(c, status, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, trains.ErrMissingParams),
		errors.Is(err, pricing.ErrInvalidPassengers),
		errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrInvalidCode),
		errors.Is(err, payment.ErrUnsupportedProvider),
		errors.Is(err, payment.ErrInvalidSignature),
		errors.Is(err, payment.ErrProviderMismatch),
		errors.Is(err, assistant.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrEmailNotVerified):
		return http.StatusForbidden
	case errors.Is(err, trains.ErrStationNotFound),
		errors.Is(err, trains.ErrTrainNotFound),
		errors.Is(err, booking.ErrTrainNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, payment.ErrBookingNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, geo.ErrNoStations):
		return http.StatusNotFound
	case errors.Is(err, identity.ErrEmailTaken),
		errors.Is(err, booking.ErrDuplicateBooking),
		errors.Is(err, booking.ErrNotEnoughSeats),
		errors.Is(err, booking.ErrBookingNotPending),
		errors.Is(err, booking.ErrTicketUnavailable),
		errors.Is(err, payment.ErrBookingNotPayable),
		errors.Is(err, payment.ErrPaymentNotPending):
		return http.StatusConflict
	case errors.Is(err, gateway.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
