package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Auth     AuthConfig     `yaml:"auth"`
	Payments PaymentsConfig `yaml:"payments"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	SwaggerDir     string   `yaml:"swagger_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	PaymentTopic       string   `yaml:"payment_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	HoldTTLMinutes         int `yaml:"hold_ttl_minutes"`
	SearchCacheTTL         int `yaml:"search_cache_ttl_seconds"`
	StudentDiscountPercent int `yaml:"student_discount_percent"`
}

type AuthConfig struct {
	BaseURL                string `yaml:"base_url"`
	AccessTokenSecret      string `yaml:"access_token_secret"`
	AccessTokenTTLMinutes  int    `yaml:"access_token_ttl_minutes"`
	VerificationTTLHours   int    `yaml:"verification_ttl_hours"`
	PasswordResetTTLMinute int    `yaml:"password_reset_ttl_minutes"`
}

type PaymentsConfig struct {
	Currency string         `yaml:"currency"`
	Razorpay RazorpayConfig `yaml:"razorpay"`
	Stripe   StripeConfig   `yaml:"stripe"`
}

type RazorpayConfig struct {
	BaseURL string `yaml:"base_url"`
	KeyID   string `yaml:"key_id"`
	Secret  string `yaml:"secret"`
}

// Enabled reports whether both halves of the credential pair are present.
func (r RazorpayConfig) Enabled() bool {
	return r.KeyID != "" && r.Secret != ""
}

type StripeConfig struct {
	BaseURL        string `yaml:"base_url"`
	PublishableKey string `yaml:"publishable_key"`
	SecretKey      string `yaml:"secret_key"`
	WebhookSecret  string `yaml:"webhook_secret"`
}

func (s StripeConfig) Enabled() bool {
	return s.SecretKey != ""
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

const defaultStudentDiscountPercent = 15

// newConfig seeds the values where zero is a legitimate setting, so an
// explicit zero in the file survives unmarshalling.
func newConfig() Config {
	return Config{
		Booking: BookingConfig{StudentDiscountPercent: defaultStudentDiscountPercent},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := newConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv(os.Getenv)
	return &cfg, nil
}

// LoadEnvFiles loads .env style files into the process environment.
// Missing files are ignored; variables already set are kept.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Booking.HoldTTLMinutes == 0 {
		c.Booking.HoldTTLMinutes = 15
	}
	if c.Booking.SearchCacheTTL == 0 {
		c.Booking.SearchCacheTTL = 60
	}
	if c.Booking.StudentDiscountPercent < 0 || c.Booking.StudentDiscountPercent > 100 {
		c.Booking.StudentDiscountPercent = defaultStudentDiscountPercent
	}
	if c.Auth.AccessTokenTTLMinutes == 0 {
		c.Auth.AccessTokenTTLMinutes = 60
	}
	if c.Auth.VerificationTTLHours == 0 {
		c.Auth.VerificationTTLHours = 24
	}
	if c.Auth.PasswordResetTTLMinute == 0 {
		c.Auth.PasswordResetTTLMinute = 60
	}
	if c.Payments.Currency == "" {
		c.Payments.Currency = "INR"
	}
	if c.Payments.Razorpay.BaseURL == "" {
		c.Payments.Razorpay.BaseURL = "https://api.razorpay.com/v1"
	}
	if c.Payments.Stripe.BaseURL == "" {
		c.Payments.Stripe.BaseURL = "https://api.stripe.com/v1"
	}
	if c.Worker.ExpirationSweepMinutes == 0 {
		c.Worker.ExpirationSweepMinutes = 5
	}
}

// applyEnv overrides secrets with environment values so they never need
// to live in the YAML file.
func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Database.Password, "DATABASE_PASSWORD")
	set(&c.Redis.Password, "REDIS_PASSWORD")
	set(&c.Auth.BaseURL, "BASE_URL")
	set(&c.Auth.AccessTokenSecret, "ACCESS_TOKEN_SECRET")
	set(&c.Payments.Razorpay.KeyID, "RAZORPAY_KEY_ID")
	set(&c.Payments.Razorpay.Secret, "RAZORPAY_SECRET")
	set(&c.Payments.Stripe.PublishableKey, "STRIPE_PUBLISHABLE_KEY")
	set(&c.Payments.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	set(&c.Payments.Stripe.WebhookSecret, "STRIPE_WEBHOOK_SECRET")

	if v := getenv("STUDENT_DISCOUNT_PERCENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 100 {
			c.Booking.StudentDiscountPercent = n
		}
	}
}
