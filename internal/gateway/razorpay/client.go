// Package razorpay talks to the Razorpay orders API and checks the payment
// signatures Razorpay hands back to the browser.
package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/gateway"
	resty "gopkg.in/resty.v1"
)

type Order struct {
	ID       string            `json:"id"`
	Entity   string            `json:"entity"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type Client struct {
	http   *resty.Client
	keyID  string
	secret string
}

func NewClient(baseURL, keyID, secret string, timeout time.Duration) *Client {
	http := resty.New().
		SetHostURL(baseURL).
		SetBasicAuth(keyID, secret).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{http: http, keyID: keyID, secret: secret}
}

func (c *Client) Provider() domain.PaymentProvider {
	return domain.PaymentProviderRazorpay
}

// CreateOrder creates an order for amountPaise (the smallest currency unit).
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*Order, error) {
	if c.keyID == "" || c.secret == "" {
		return nil, gateway.ErrNotConfigured
	}
	if amountPaise <= 0 {
		return nil, fmt.Errorf("razorpay: amount must be positive")
	}

	var order Order
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(orderRequest{
			Amount:   amountPaise,
			Currency: currency,
			Receipt:  receipt,
			Notes:    map[string]string{"paymentId": receipt},
		}).
		SetResult(&order).
		SetError(&failure).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay: create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("razorpay: create order: status %d: %s", resp.StatusCode(), failure.Error.Description)
	}
	return &order, nil
}

func (c *Client) Initiate(ctx context.Context, charge gateway.Charge) (*gateway.Checkout, error) {
	order, err := c.CreateOrder(ctx, charge.AmountPaise, charge.Currency, charge.PaymentID)
	if err != nil {
		return nil, err
	}
	return &gateway.Checkout{
		Provider:    domain.PaymentProviderRazorpay,
		OrderID:     order.ID,
		PublicKey:   c.keyID,
		AmountPaise: order.Amount,
		Currency:    order.Currency,
	}, nil
}

func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(c.secret, orderID, paymentID, signature)
}

// Signature is hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := Signature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

var _ gateway.Gateway = (*Client)(nil)
