package domain

import "time"

type PaymentProvider string

const (
	PaymentProviderRazorpay PaymentProvider = "razorpay"
	PaymentProviderStripe   PaymentProvider = "stripe"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

type Payment struct {
	ID                string
	UserID            string
	BookingID         string
	Provider          PaymentProvider
	AmountPaise       int64
	Currency          string
	Status            PaymentStatus
	ProviderOrderID   string
	ProviderPaymentID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
