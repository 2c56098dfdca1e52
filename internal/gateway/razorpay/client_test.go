package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/Domenick1991/travelease/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignature_KnownValue(t *testing.T) {
	assert.Equal(t, "52115a0d3400de9e86aade1f1b6eba9e8974604f4e267a9e9a16633a4c8dd2cb", Signature("secret", "order_1", "pay_1"))
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("secret", "order_1", "pay_1")

	assert.True(t, VerifySignature("secret", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_1", "pay_2", sig))
	assert.False(t, VerifySignature("other", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_1", "pay_1", ""))
	assert.False(t, VerifySignature("", "order_1", "pay_1", sig))
}

func TestClient_CreateOrder(t *testing.T) {
	var got orderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_ABC","entity":"order","amount":573750,"currency":"INR","receipt":"pay-1","status":"created"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "rzp_test_key", "secret", 5*time.Second)

	checkout, err := client.Initiate(context.Background(), gateway.Charge{AmountPaise: 573750, Currency: "INR", PaymentID: "pay-1"})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentProviderRazorpay, checkout.Provider)
	assert.Equal(t, "order_ABC", checkout.OrderID)
	assert.Equal(t, "rzp_test_key", checkout.PublicKey)
	assert.Equal(t, int64(573750), checkout.AmountPaise)
	assert.Equal(t, int64(573750), got.Amount)
	assert.Equal(t, "pay-1", got.Receipt)
	assert.Equal(t, "pay-1", got.Notes["paymentId"])
}

func TestClient_CreateOrder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount exceeds maximum"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", "secret", 5*time.Second)
	_, err := client.CreateOrder(context.Background(), 100, "INR", "r1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount exceeds maximum")
	assert.Contains(t, err.Error(), "400")
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", "", "", time.Second)
	_, err := client.CreateOrder(context.Background(), 100, "INR", "r1")
	assert.ErrorIs(t, err, gateway.ErrNotConfigured)
}

func TestClient_RejectsNonPositiveAmount(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", "key", "secret", time.Second)
	_, err := client.CreateOrder(context.Background(), 0, "INR", "r1")
	assert.Error(t, err)
}
