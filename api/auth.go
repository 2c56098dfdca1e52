package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/travelease/internal/identity"
	"github.com/Domenick1991/travelease/internal/responses"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service identity.IdentityUseCase
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type codeRequest struct {
	Code string `json:"code" binding:"required"`
}

type confirmResetRequest struct {
	Code     string `json:"code" binding:"required"`
	Password string `json:"password"`
}

func NewAuthHandler(service identity.IdentityUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	auth.POST("/signup", h.signUp)
	auth.POST("/signin", h.signIn)
	auth.POST("/signout", RequireSession(h.service), h.signOut)
	auth.POST("/verify-email", h.verifyEmail)
	auth.POST("/resend-verification", h.resendVerification)
	auth.POST("/password-reset", h.sendPasswordReset)
	auth.POST("/password-reset/verify", h.verifyPasswordReset)
	auth.POST("/password-reset/confirm", h.confirmPasswordReset)

	router.GET("/me", RequireSession(h.service), h.me)
}

func (h *AuthHandler) signUp(c *gin.Context) {
	var req identity.SignUpInput
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusCreated, profile)
}

func (h *AuthHandler) signIn(c *gin.Context) {
	var req signInRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailNotVerified) {
			responses.NeedsVerification(c, http.StatusForbidden, err, req.Email)
			return
		}
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, result)
}

func (h *AuthHandler) signOut(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	if err := h.service.SignOut(c.Request.Context(), session); err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, nil)
}

func (h *AuthHandler) verifyEmail(c *gin.Context) {
	var req codeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.VerifyEmail(c.Request.Context(), req.Code); err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, nil)
}

func (h *AuthHandler) resendVerification(c *gin.Context) {
	var req emailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.SendEmailVerification(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, nil)
}

func (h *AuthHandler) sendPasswordReset(c *gin.Context) {
	var req emailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.SendPasswordReset(c.Request.Context(), req.Email); err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, nil)
}

func (h *AuthHandler) verifyPasswordReset(c *gin.Context) {
	var req codeRequest
	if !bindJSON(c, &req) {
		return
	}
	email, err := h.service.VerifyPasswordResetCode(c.Request.Context(), req.Code)
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, gin.H{"email": email})
}

func (h *AuthHandler) confirmPasswordReset(c *gin.Context) {
	var req confirmResetRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.ConfirmPasswordReset(c.Request.Context(), req.Code, req.Password); err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, nil)
}

func (h *AuthHandler) me(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	profile, err := h.service.Profile(c.Request.Context(), session.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, profile)
}
