package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
database:
  host: db
  port: 5432
  user: u
  password: p
  name: travel
  ssl_mode: disable
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 15, cfg.Booking.StudentDiscountPercent)
	assert.Equal(t, 15, cfg.Booking.HoldTTLMinutes)
	assert.Equal(t, "INR", cfg.Payments.Currency)
	assert.Equal(t, "https://api.razorpay.com/v1", cfg.Payments.Razorpay.BaseURL)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=travel sslmode=disable", cfg.Database.DSN())
}

func TestLoadConfig_ExplicitZeroDiscount(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
booking:
  student_discount_percent: 0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Booking.StudentDiscountPercent)
}

func TestLoadConfig_DiscountOutOfRange(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
booking:
  student_discount_percent: 140
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Booking.StudentDiscountPercent)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "http: [")
	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestApplyEnv_OverridesSecrets(t *testing.T) {
	env := map[string]string{
		"RAZORPAY_KEY_ID":          "rzp_test_key",
		"RAZORPAY_SECRET":          "rzp_secret",
		"STRIPE_PUBLISHABLE_KEY":   "pk_test",
		"STRIPE_SECRET_KEY":        "sk_test",
		"ACCESS_TOKEN_SECRET":      "jwt-secret",
		"BASE_URL":                 "https://travelease.example",
		"STUDENT_DISCOUNT_PERCENT": "10",
	}
	cfg := &Config{}
	cfg.Payments.Razorpay.Secret = "from-yaml"
	cfg.applyDefaults()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "rzp_test_key", cfg.Payments.Razorpay.KeyID)
	assert.Equal(t, "rzp_secret", cfg.Payments.Razorpay.Secret)
	assert.True(t, cfg.Payments.Razorpay.Enabled())
	assert.Equal(t, "pk_test", cfg.Payments.Stripe.PublishableKey)
	assert.Equal(t, "sk_test", cfg.Payments.Stripe.SecretKey)
	assert.True(t, cfg.Payments.Stripe.Enabled())
	assert.Equal(t, "jwt-secret", cfg.Auth.AccessTokenSecret)
	assert.Equal(t, "https://travelease.example", cfg.Auth.BaseURL)
	assert.Equal(t, 10, cfg.Booking.StudentDiscountPercent)
}

func TestApplyEnv_IgnoresBadDiscount(t *testing.T) {
	cfg := newConfig()
	cfg.applyDefaults()
	cfg.applyEnv(func(k string) string {
		if k == "STUDENT_DISCOUNT_PERCENT" {
			return "150"
		}
		return ""
	})
	assert.Equal(t, 15, cfg.Booking.StudentDiscountPercent)
	assert.False(t, cfg.Payments.Razorpay.Enabled())
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "TRAVELEASE_TEST_ONLY=loaded\n")
	t.Cleanup(func() { os.Unsetenv("TRAVELEASE_TEST_ONLY") })

	require.NoError(t, LoadEnvFiles(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "loaded", os.Getenv("TRAVELEASE_TEST_ONLY"))
}
