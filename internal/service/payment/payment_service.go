package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/gateway"
	"github.com/Domenick1991/travelease/internal/gateway/razorpay"
	"github.com/Domenick1991/travelease/internal/gateway/stripe"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrInvalidSignature    = errors.New("invalid payment signature")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrPaymentNotPending   = errors.New("payment is not pending")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrBookingNotPayable   = errors.New("booking is not awaiting payment")
	ErrUnsupportedProvider = errors.New("unsupported payment provider")
	ErrProviderMismatch    = errors.New("payment was not started with this provider")
)

type PaymentUseCase interface {
	Initiate(ctx context.Context, session domain.Session, input InitiateInput) (*InitiateResult, error)
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*razorpay.Order, error)
	VerifyRazorpay(ctx context.Context, input VerifyRazorpayInput) (*domain.Payment, error)
	HandleStripeWebhook(ctx context.Context, payload []byte, signatureHeader string) error
	GetPayment(ctx context.Context, userID, id string) (*domain.Payment, error)
	ExpireStalePayments(ctx context.Context) ([]domain.Payment, error)
}

type BookingStore interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

type BookingConfirmer interface {
	ConfirmBooking(ctx context.Context, id string) (*domain.Booking, error)
}

type RazorpayGateway interface {
	gateway.Gateway
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type StripeGateway interface {
	gateway.Gateway
	ParseWebhook(payload []byte, header string) (*stripe.WebhookEvent, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type InitiateInput struct {
	BookingID string                 `json:"booking_id" binding:"required"`
	Provider  domain.PaymentProvider `json:"provider" binding:"required,oneof=razorpay stripe"`
	Currency  string                 `json:"currency"`
}

type InitiateResult struct {
	Payment  *domain.Payment   `json:"payment"`
	Checkout *gateway.Checkout `json:"checkout"`
}

// VerifyRazorpayInput carries what the Razorpay checkout hands back to
// the browser. PaymentID is our own payment id and is optional; the
// provider order id identifies the payment otherwise.
type VerifyRazorpayInput struct {
	PaymentID         string `json:"paymentId"`
	RazorpayOrderID   string `json:"razorpayOrderId" binding:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" binding:"required"`
	RazorpaySignature string `json:"razorpaySignature" binding:"required"`
}

type PaymentService struct {
	payments           repository.PaymentRepository
	bookings           BookingStore
	confirmer          BookingConfirmer
	razorpay           RazorpayGateway
	stripe             StripeGateway
	producer           Producer
	paymentTopic       string
	notificationsTopic string
	currency           string
	pendingTTL         time.Duration
	now                func() time.Time
}

type PaymentServiceOption func(*PaymentService)

func WithRazorpay(gw RazorpayGateway) PaymentServiceOption {
	return func(s *PaymentService) {
		s.razorpay = gw
	}
}

func WithStripe(gw StripeGateway) PaymentServiceOption {
	return func(s *PaymentService) {
		s.stripe = gw
	}
}

func WithEvents(producer Producer, paymentTopic, notificationsTopic string) PaymentServiceOption {
	return func(s *PaymentService) {
		s.producer = producer
		s.paymentTopic = paymentTopic
		s.notificationsTopic = notificationsTopic
	}
}

func NewPaymentService(
	payments repository.PaymentRepository,
	bookings BookingStore,
	confirmer BookingConfirmer,
	currency string,
	pendingTTL time.Duration,
	opts ...PaymentServiceOption,
) *PaymentService {
	service := &PaymentService{
		payments:   payments,
		bookings:   bookings,
		confirmer:  confirmer,
		currency:   currency,
		pendingTTL: pendingTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *PaymentService) Initiate(ctx context.Context, session domain.Session, input InitiateInput) (*InitiateResult, error) {
	gw, err := s.gateway(input.Provider)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != session.UserID {
		return nil, ErrBookingNotFound
	}
	if booking.Status != domain.BookingStatusPending || !s.now().Before(booking.ExpiresAt) {
		return nil, ErrBookingNotPayable
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = s.currency
	}

	p := &domain.Payment{
		ID:          uuid.NewString(),
		UserID:      session.UserID,
		BookingID:   booking.ID,
		Provider:    gw.Provider(),
		AmountPaise: booking.AmountDuePaise,
		Currency:    currency,
	}
	if err := s.payments.CreatePending(ctx, p); err != nil {
		return nil, err
	}

	checkout, err := gw.Initiate(ctx, gateway.Charge{
		AmountPaise: p.AmountPaise,
		Currency:    p.Currency,
		PaymentID:   p.ID,
		Description: "Train Ticket Booking",
		Email:       session.Email,
	})
	if err != nil {
		if ferr := s.payments.Fail(ctx, p.ID); ferr != nil {
			log.Printf("mark payment %s failed: %v", p.ID, ferr)
		}
		return nil, err
	}

	if err := s.payments.SetProviderOrderID(ctx, p.ID, checkout.OrderID); err != nil {
		return nil, err
	}
	p.ProviderOrderID = checkout.OrderID
	return &InitiateResult{Payment: p, Checkout: checkout}, nil
}

func (s *PaymentService) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*razorpay.Order, error) {
	if s.razorpay == nil {
		return nil, gateway.ErrNotConfigured
	}
	if currency == "" {
		currency = s.currency
	}
	return s.razorpay.CreateOrder(ctx, amountPaise, strings.ToUpper(currency), receipt)
}

// VerifyRazorpay checks the signature before touching any record. A
// mismatch leaves every payment and booking untouched.
func (s *PaymentService) VerifyRazorpay(ctx context.Context, input VerifyRazorpayInput) (*domain.Payment, error) {
	if s.razorpay == nil {
		return nil, gateway.ErrNotConfigured
	}
	if !s.razorpay.VerifySignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature) {
		return nil, ErrInvalidSignature
	}

	var p *domain.Payment
	var err error
	if input.PaymentID != "" {
		p, err = s.payments.GetByID(ctx, input.PaymentID)
	} else {
		p, err = s.payments.GetByProviderOrderID(ctx, input.RazorpayOrderID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.Provider != domain.PaymentProviderRazorpay || p.ProviderOrderID != input.RazorpayOrderID {
		return nil, ErrInvalidSignature
	}
	return s.complete(ctx, p, input.RazorpayPaymentID)
}

func (s *PaymentService) HandleStripeWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if s.stripe == nil {
		return gateway.ErrNotConfigured
	}
	event, err := s.stripe.ParseWebhook(payload, signatureHeader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	checkout := event.Data.Object
	switch event.Type {
	case stripe.EventCheckoutCompleted:
		p, err := s.stripePayment(ctx, checkout.ClientReferenceID)
		if err != nil {
			return err
		}
		providerPaymentID := checkout.PaymentIntent
		if providerPaymentID == "" {
			providerPaymentID = checkout.ID
		}
		_, err = s.complete(ctx, p, providerPaymentID)
		return err
	case stripe.EventCheckoutExpired:
		p, err := s.stripePayment(ctx, checkout.ClientReferenceID)
		if err != nil {
			return err
		}
		return s.payments.Fail(ctx, p.ID)
	default:
		log.Printf("ignoring stripe event %s (%s)", event.ID, event.Type)
		return nil
	}
}

// stripePayment loads the payment a checkout session refers to. A signed
// event may only settle payments that were started through Stripe.
func (s *PaymentService) stripePayment(ctx context.Context, id string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.Provider != domain.PaymentProviderStripe {
		return nil, ErrProviderMismatch
	}
	return p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, userID, id string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

// ExpireStalePayments fails payments still pending after the hold period.
func (s *PaymentService) ExpireStalePayments(ctx context.Context) ([]domain.Payment, error) {
	stale, err := s.payments.ExpirePendingBefore(ctx, s.now().Add(-s.pendingTTL))
	if err != nil {
		return nil, err
	}
	for i := range stale {
		if err := s.publish(ctx, kafka.EventPaymentFailed, &stale[i]); err != nil {
			log.Printf("WARNING: Failed to publish payment_failed event for payment %s: %v", stale[i].ID, err)
		}
	}
	return stale, nil
}

// complete marks the payment completed and confirms its booking. A repeat
// notification for an already completed payment returns it unchanged.
func (s *PaymentService) complete(ctx context.Context, p *domain.Payment, providerPaymentID string) (*domain.Payment, error) {
	if p.Status == domain.PaymentStatusCompleted {
		if p.ProviderPaymentID == providerPaymentID {
			return p, nil
		}
		return nil, ErrPaymentNotPending
	}

	completed, err := s.payments.Complete(ctx, p.ID, providerPaymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotPending
		}
		return nil, err
	}

	if _, err := s.confirmer.ConfirmBooking(ctx, completed.BookingID); err != nil {
		// money was taken for a booking that can no longer be confirmed
		log.Printf("WARNING: payment %s completed but booking %s not confirmed: %v", completed.ID, completed.BookingID, err)
	}
	if err := s.publish(ctx, kafka.EventPaymentCompleted, completed); err != nil {
		log.Printf("WARNING: Failed to publish payment_completed event for payment %s: %v", completed.ID, err)
	}
	return completed, nil
}

func (s *PaymentService) gateway(provider domain.PaymentProvider) (gateway.Gateway, error) {
	switch provider {
	case domain.PaymentProviderRazorpay:
		if s.razorpay == nil {
			return nil, gateway.ErrNotConfigured
		}
		return s.razorpay, nil
	case domain.PaymentProviderStripe:
		if s.stripe == nil {
			return nil, gateway.ErrNotConfigured
		}
		return s.stripe, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

func (s *PaymentService) publish(ctx context.Context, eventType kafka.EventType, p *domain.Payment) error {
	if s.producer == nil || s.paymentTopic == "" {
		return nil
	}
	event := kafka.Event{
		Type:        eventType,
		UserID:      p.UserID,
		BookingID:   p.BookingID,
		PaymentID:   p.ID,
		Provider:    string(p.Provider),
		Status:      string(p.Status),
		AmountPaise: p.AmountPaise,
		Currency:    p.Currency,
		OccurredAt:  s.now(),
	}
	if err := s.producer.Publish(ctx, s.paymentTopic, p.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, p.ID, event)
	}
	return nil
}

var _ PaymentUseCase = (*PaymentService)(nil)
