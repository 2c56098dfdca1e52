package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	SignatureHeader = "Stripe-Signature"
	// DefaultTolerance is how far a webhook timestamp may drift from now.
	DefaultTolerance = 5 * time.Minute

	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

var (
	ErrInvalidSignature = errors.New("stripe: invalid webhook signature")
	ErrStaleWebhook     = errors.New("stripe: webhook timestamp outside tolerance")
)

type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object Session `json:"object"`
	} `json:"data"`
}

// ParseWebhook verifies the signature header against the configured
// webhook secret and decodes the event.
func (c *Client) ParseWebhook(payload []byte, header string) (*WebhookEvent, error) {
	if c.webhookSecret == "" {
		return nil, errors.New("stripe: webhook secret is not configured")
	}
	if err := VerifyWebhookSignature(payload, header, c.webhookSecret, DefaultTolerance, c.now()); err != nil {
		return nil, err
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("stripe: decode webhook: %w", err)
	}
	return &event, nil
}

// VerifyWebhookSignature checks a "t=<unix>,v1=<hex>" header. Any v1 entry
// may match; the signed message is "<t>.<payload>".
func VerifyWebhookSignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	signedAt := time.Unix(unix, 0)
	if tolerance > 0 && (now.Sub(signedAt) > tolerance || signedAt.Sub(now) > tolerance) {
		return ErrStaleWebhook
	}

	expected := []byte(WebhookSignature(payload, secret, timestamp))
	for _, sig := range signatures {
		if hmac.Equal(expected, []byte(sig)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

func WebhookSignature(payload []byte, secret, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
