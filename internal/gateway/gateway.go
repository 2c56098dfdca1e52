// Package gateway defines the capability every hosted checkout provider
// offers to the payment service.
package gateway

import (
	"context"
	"errors"

	"github.com/Domenick1991/travelease/internal/domain"
)

var ErrNotConfigured = errors.New("payment gateway is not configured")

// Charge is what the payment service asks a provider to collect.
type Charge struct {
	AmountPaise int64
	Currency    string
	PaymentID   string
	Description string
	Email       string
}

// Checkout is what the client needs to hand the user over to the provider.
type Checkout struct {
	Provider    domain.PaymentProvider `json:"provider"`
	OrderID     string                 `json:"order_id"`
	RedirectURL string                 `json:"redirect_url,omitempty"`
	PublicKey   string                 `json:"public_key,omitempty"`
	AmountPaise int64                  `json:"amount_paise"`
	Currency    string                 `json:"currency"`
}

type Gateway interface {
	Provider() domain.PaymentProvider
	Initiate(ctx context.Context, charge Charge) (*Checkout, error)
}
