package api

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/gateway"
	"github.com/Domenick1991/travelease/internal/gateway/stripe"
	"github.com/Domenick1991/travelease/internal/responses"
	"github.com/Domenick1991/travelease/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service payment.PaymentUseCase
	auth    Authenticator
}

type paymentResponse struct {
	ID                string `json:"id"`
	BookingID         string `json:"booking_id"`
	Provider          string `json:"provider"`
	AmountPaise       int64  `json:"amount_paise"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	ProviderOrderID   string `json:"provider_order_id,omitempty"`
	ProviderPaymentID string `json:"provider_payment_id,omitempty"`
	CreatedAt         string `json:"created_at"`
}

type initiateResponse struct {
	Payment  paymentResponse   `json:"payment"`
	Checkout *gateway.Checkout `json:"checkout"`
}

// Amount is in rupees and capped so the paise conversion stays in range.
type createOrderRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0,lte=10000000"`
	Currency  string  `json:"currency"`
	PaymentID string  `json:"paymentId"`
}

func NewPaymentHandler(service payment.PaymentUseCase, auth Authenticator) *PaymentHandler {
	return &PaymentHandler{service: service, auth: auth}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	payments := router.Group("/payments")
	payments.POST("/razorpay/verify", h.verifyRazorpay)
	payments.POST("/stripe/webhook", h.stripeWebhook)
	payments.POST("", RequireSession(h.auth), h.initiate)
	payments.GET("/:id", RequireSession(h.auth), h.get)
}

// RegisterServerRoutes mounts the order and verification routes used by
// the checkout widget, at their historical paths.
func (h *PaymentHandler) RegisterServerRoutes(router *gin.RouterGroup) {
	router.POST("/create-razorpay-order", h.createOrder)
	router.POST("/verify-razorpay-payment", h.verifyRazorpaySignature)
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:                p.ID,
		BookingID:         p.BookingID,
		Provider:          string(p.Provider),
		AmountPaise:       p.AmountPaise,
		Currency:          p.Currency,
		Status:            string(p.Status),
		ProviderOrderID:   p.ProviderOrderID,
		ProviderPaymentID: p.ProviderPaymentID,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}

func (h *PaymentHandler) initiate(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	var req payment.InitiateInput
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Initiate(c.Request.Context(), session, req)
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusCreated, initiateResponse{
		Payment:  toPaymentResponse(result.Payment),
		Checkout: result.Checkout,
	})
}

func (h *PaymentHandler) get(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}
	p, err := h.service.GetPayment(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, toPaymentResponse(p))
}

func (h *PaymentHandler) verifyRazorpay(c *gin.Context) {
	var req payment.VerifyRazorpayInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.service.VerifyRazorpay(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, toPaymentResponse(p))
}

func (h *PaymentHandler) stripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, errBadRequest)
		return
	}
	if err := h.service.HandleStripeWebhook(c.Request.Context(), payload, c.GetHeader(stripe.SignatureHeader)); err != nil {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, gin.H{"received": true})
}

// createOrder takes the amount in rupees and answers with the provider's
// order object as-is.
func (h *PaymentHandler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	amountPaise := int64(math.Round(req.Amount * 100))

	order, err := h.service.CreateOrder(c.Request.Context(), amountPaise, req.Currency, req.PaymentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// verifyRazorpaySignature succeeds for any authentic signature, including
// orders that were not created through POST /payments.
func (h *PaymentHandler) verifyRazorpaySignature(c *gin.Context) {
	var req payment.VerifyRazorpayInput
	if !bindJSON(c, &req) {
		return
	}
	_, err := h.service.VerifyRazorpay(c.Request.Context(), req)
	if err != nil && !errors.Is(err, payment.ErrPaymentNotFound) {
		fail(c, err)
		return
	}
	responses.Success(c, http.StatusOK, nil)
}
