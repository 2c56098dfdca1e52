package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/identity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIdentityUseCase is a mock implementation of identity.IdentityUseCase
type MockIdentityUseCase struct {
	mock.Mock
}

func (m *MockIdentityUseCase) SignUp(ctx context.Context, input identity.SignUpInput) (*domain.UserProfile, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockIdentityUseCase) SignIn(ctx context.Context, email, password string) (*identity.SignInResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.SignInResult), args.Error(1)
}

func (m *MockIdentityUseCase) SignOut(ctx context.Context, session domain.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockIdentityUseCase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockIdentityUseCase) SendEmailVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockIdentityUseCase) VerifyEmail(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

func (m *MockIdentityUseCase) SendPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockIdentityUseCase) VerifyPasswordResetCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityUseCase) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	return m.Called(ctx, code, newPassword).Error(0)
}

func (m *MockIdentityUseCase) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func newJSONContext(method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	raw, _ := json.Marshal(body)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestAuthHandler_signUp(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	input := identity.SignUpInput{Name: "Asha", Email: "asha@iitd.ac.in", Password: "secret1"}
	c, w := newJSONContext("POST", "/auth/signup", input)

	profile := &domain.UserProfile{ID: "u1", Name: "Asha", Email: "asha@iitd.ac.in", IsStudent: true}
	mockService.On("SignUp", c.Request.Context(), input).Return(profile, nil)

	handler.signUp(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got domain.UserProfile
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.True(t, got.IsStudent)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_signUp_EmailTaken(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	input := identity.SignUpInput{Name: "Asha", Email: "asha@iitd.ac.in", Password: "secret1"}
	c, w := newJSONContext("POST", "/auth/signup", input)
	mockService.On("SignUp", c.Request.Context(), input).Return(nil, identity.ErrEmailTaken)

	handler.signUp(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, identity.ErrEmailTaken.Error(), decodeEnvelope(t, w).Error)
}

func TestAuthHandler_signIn(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	c, w := newJSONContext("POST", "/auth/signin", signInRequest{Email: "asha@iitd.ac.in", Password: "secret1"})
	result := &identity.SignInResult{Token: "tok", ExpiresAt: time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC), User: &domain.UserProfile{ID: "u1"}}
	mockService.On("SignIn", c.Request.Context(), "asha@iitd.ac.in", "secret1").Return(result, nil)

	handler.signIn(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var got identity.SignInResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, "tok", got.Token)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_signIn_NeedsVerification(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	c, w := newJSONContext("POST", "/auth/signin", signInRequest{Email: "asha@iitd.ac.in", Password: "secret1"})
	mockService.On("SignIn", c.Request.Context(), "asha@iitd.ac.in", "secret1").Return(nil, identity.ErrEmailNotVerified)

	handler.signIn(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.True(t, env.NeedsVerification)
	assert.Equal(t, "asha@iitd.ac.in", env.Email)
}

func TestAuthHandler_signIn_InvalidCredentials(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	c, w := newJSONContext("POST", "/auth/signin", signInRequest{Email: "asha@iitd.ac.in", Password: "nope"})
	mockService.On("SignIn", c.Request.Context(), "asha@iitd.ac.in", "nope").Return(nil, identity.ErrInvalidCredentials)

	handler.signIn(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decodeEnvelope(t, w).NeedsVerification)
}

func TestAuthHandler_passwordReset(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	c, w := newJSONContext("POST", "/auth/password-reset/verify", codeRequest{Code: "abc"})
	mockService.On("VerifyPasswordResetCode", c.Request.Context(), "abc").Return("asha@iitd.ac.in", nil)
	handler.verifyPasswordReset(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), "asha@iitd.ac.in")

	c, w = newJSONContext("POST", "/auth/password-reset/confirm", confirmResetRequest{Code: "abc", Password: "newpass"})
	mockService.On("ConfirmPasswordReset", c.Request.Context(), "abc", "newpass").Return(identity.ErrInvalidCode)
	handler.confirmPasswordReset(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newJSONContext("POST", "/auth/password-reset", emailRequest{Email: "ghost@example.com"})
	mockService.On("SendPasswordReset", c.Request.Context(), "ghost@example.com").Return(identity.ErrUserNotFound)
	handler.sendPasswordReset(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	mockService.AssertExpectations(t)
}

func TestAuthHandler_verifyEmail_MissingCode(t *testing.T) {
	handler := NewAuthHandler(&MockIdentityUseCase{})

	c, w := newJSONContext("POST", "/auth/verify-email", codeRequest{})
	handler.verifyEmail(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RoutesRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockService := &MockIdentityUseCase{}
	router := gin.New()
	NewAuthHandler(mockService).Register(router.Group("/api/v1"))

	session := &domain.Session{UserID: "u1", Email: "asha@iitd.ac.in", TokenID: "jti-1"}
	mockService.On("Authenticate", mock.Anything, "good").Return(session, nil)
	mockService.On("Authenticate", mock.Anything, "bad").Return(nil, errors.New("expired"))
	mockService.On("Profile", mock.Anything, "u1").Return(&domain.UserProfile{ID: "u1", BookingIDs: []string{"b1"}}, nil)
	mockService.On("SignOut", mock.Anything, *session).Return(nil)

	cases := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"no header", "GET", "/api/v1/me", "", http.StatusUnauthorized},
		{"wrong scheme", "GET", "/api/v1/me", "Basic abc", http.StatusUnauthorized},
		{"bad token", "GET", "/api/v1/me", "Bearer bad", http.StatusUnauthorized},
		{"profile", "GET", "/api/v1/me", "Bearer good", http.StatusOK},
		{"sign out", "POST", "/api/v1/auth/signout", "Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestAuthHandler_RejectsMalformedEmail(t *testing.T) {
	mockService := &MockIdentityUseCase{}
	handler := NewAuthHandler(mockService)

	c, w := newJSONContext("POST", "/auth/signup", identity.SignUpInput{Name: "Asha", Email: "not-an-email", Password: "secret1"})
	handler.signUp(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newJSONContext("POST", "/auth/password-reset", emailRequest{Email: "asha"})
	handler.sendPasswordReset(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newJSONContext("POST", "/auth/resend-verification", emailRequest{})
	handler.resendVerification(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
	mockService.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything)
	mockService.AssertNotCalled(t, "SendEmailVerification", mock.Anything, mock.Anything)
}
