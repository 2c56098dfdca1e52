// Package stripe creates hosted checkout sessions and verifies webhook
// deliveries.
package stripe

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/gateway"
	resty "gopkg.in/resty.v1"
)

type Session struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	ClientReferenceID string `json:"client_reference_id"`
	PaymentIntent     string `json:"payment_intent"`
	PaymentStatus     string `json:"payment_status"`
	AmountTotal       int64  `json:"amount_total"`
	Currency          string `json:"currency"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	http           *resty.Client
	secretKey      string
	publishableKey string
	webhookSecret  string
	appBaseURL     string
	now            func() time.Time
}

func NewClient(baseURL, secretKey, publishableKey, webhookSecret, appBaseURL string, timeout time.Duration) *Client {
	http := resty.New().
		SetHostURL(baseURL).
		SetAuthToken(secretKey).
		SetTimeout(timeout)
	return &Client{
		http:           http,
		secretKey:      secretKey,
		publishableKey: publishableKey,
		webhookSecret:  webhookSecret,
		appBaseURL:     strings.TrimRight(appBaseURL, "/"),
		now:            time.Now,
	}
}

func (c *Client) Provider() domain.PaymentProvider {
	return domain.PaymentProviderStripe
}

func (c *Client) CreateSession(ctx context.Context, charge gateway.Charge) (*Session, error) {
	if c.secretKey == "" {
		return nil, gateway.ErrNotConfigured
	}
	if charge.AmountPaise <= 0 {
		return nil, fmt.Errorf("stripe: amount must be positive")
	}

	description := charge.Description
	if description == "" {
		description = "Train Ticket Booking"
	}
	ref := url.QueryEscape(charge.PaymentID)
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", charge.PaymentID)
	form.Set("success_url", c.appBaseURL+"/booking/confirmation?payment_id="+ref+"&session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", c.appBaseURL+"/payment?payment_id="+ref+"&cancelled=1")
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", strings.ToLower(charge.Currency))
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(charge.AmountPaise, 10))
	form.Set("line_items[0][price_data][product_data][name]", description)
	form.Set("metadata[payment_id]", charge.PaymentID)
	if charge.Email != "" {
		form.Set("customer_email", charge.Email)
	}

	var session Session
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetMultiValueFormData(form).
		SetResult(&session).
		SetError(&failure).
		Post("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("stripe: create session: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("stripe: create session: status %d: %s", resp.StatusCode(), failure.Error.Message)
	}
	return &session, nil
}

func (c *Client) Initiate(ctx context.Context, charge gateway.Charge) (*gateway.Checkout, error) {
	session, err := c.CreateSession(ctx, charge)
	if err != nil {
		return nil, err
	}
	return &gateway.Checkout{
		Provider:    domain.PaymentProviderStripe,
		OrderID:     session.ID,
		RedirectURL: session.URL,
		PublicKey:   c.publishableKey,
		AmountPaise: charge.AmountPaise,
		Currency:    charge.Currency,
	}, nil
}

var _ gateway.Gateway = (*Client)(nil)
