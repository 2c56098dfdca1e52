package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelease/config"
	"github.com/Domenick1991/travelease/internal/assistant"
	"github.com/Domenick1991/travelease/internal/bootstrap"
	"github.com/Domenick1991/travelease/internal/cache"
	"github.com/Domenick1991/travelease/internal/gateway/razorpay"
	"github.com/Domenick1991/travelease/internal/gateway/stripe"
	"github.com/Domenick1991/travelease/internal/geo"
	"github.com/Domenick1991/travelease/internal/identity"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/Domenick1991/travelease/internal/service/payment"
	"github.com/Domenick1991/travelease/internal/service/trains"
	"github.com/jackc/pgx/v5/pgxpool"
)

const gatewayTimeout = 10 * time.Second

func main() {
	if err := config.LoadEnvFiles(".env"); err != nil {
		log.Fatalf("load env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.SearchCacheTTL)*time.Second)
	defer redisCache.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	holdTTL := time.Duration(cfg.Booking.HoldTTLMinutes) * time.Minute
	discount := cfg.Booking.StudentDiscountPercent

	trainRepo := repository.NewMemoryTrainRepository()
	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	stations, err := trainRepo.AllStations(ctx)
	if err != nil {
		log.Fatalf("load stations: %v", err)
	}

	trainService := trains.NewTrainService(
		trainRepo,
		discount,
		trains.WithSearchCache(redisCache),
		trains.WithLocator(geo.NewLocator(stations, 10000, time.Hour)),
	)

	identityService := identity.NewIdentityService(
		userRepo,
		bookingRepo,
		redisCache,
		identity.NewTokenIssuer(cfg.Auth.AccessTokenSecret, time.Duration(cfg.Auth.AccessTokenTTLMinutes)*time.Minute),
		cfg.Auth.BaseURL,
		identity.WithNotifications(producer, cfg.Kafka.NotificationsTopic),
		identity.WithCodeTTLs(
			time.Duration(cfg.Auth.VerificationTTLHours)*time.Hour,
			time.Duration(cfg.Auth.PasswordResetTTLMinute)*time.Minute,
		),
	)

	bookingService := booking.NewBookingService(
		bookingRepo,
		trainRepo,
		producer,
		cfg.Kafka.BookingTopic,
		holdTTL,
		discount,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLocker(redisCache),
	)

	paymentOpts := []payment.PaymentServiceOption{
		payment.WithEvents(producer.WithRetries(3), cfg.Kafka.PaymentTopic, cfg.Kafka.NotificationsTopic),
	}
	if rp := cfg.Payments.Razorpay; rp.Enabled() {
		paymentOpts = append(paymentOpts, payment.WithRazorpay(razorpay.NewClient(rp.BaseURL, rp.KeyID, rp.Secret, gatewayTimeout)))
	} else {
		log.Printf("WARNING: Razorpay credentials are not configured, Razorpay payments are disabled")
	}
	if st := cfg.Payments.Stripe; st.Enabled() {
		paymentOpts = append(paymentOpts, payment.WithStripe(
			stripe.NewClient(st.BaseURL, st.SecretKey, st.PublishableKey, st.WebhookSecret, cfg.Auth.BaseURL, gatewayTimeout),
		))
	} else {
		log.Printf("WARNING: Stripe credentials are not configured, Stripe payments are disabled")
	}
	paymentService := payment.NewPaymentService(paymentRepo, bookingRepo, bookingService, cfg.Payments.Currency, holdTTL, paymentOpts...)

	services := bootstrap.Services{
		Identity:  identityService,
		Trains:    trainService,
		Bookings:  bookingService,
		Payments:  paymentService,
		Assistant: assistant.New(discount),
		Health: []bootstrap.HealthCheck{
			{Name: "postgres", Check: pool.Ping},
			{Name: "redis", Check: redisCache.Ping},
			{Name: "kafka", Check: producer.CheckConnection},
		},
	}

	log.Printf("listening on %s", cfg.HTTP.Address)
	if err := bootstrap.Run(ctx, cfg, services); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
