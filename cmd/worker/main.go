package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelease/config"
	"github.com/Domenick1991/travelease/internal/cache"
	"github.com/Domenick1991/travelease/internal/email"
	"github.com/Domenick1991/travelease/internal/kafka"
	"github.com/Domenick1991/travelease/internal/repository"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/Domenick1991/travelease/internal/service/payment"
	"github.com/jackc/pgx/v5/pgxpool"
)

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

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.SearchCacheTTL)*time.Second)
	defer redisCache.Close()

	holdTTL := time.Duration(cfg.Booking.HoldTTLMinutes) * time.Minute

	trainRepo := repository.NewMemoryTrainRepository()
	userRepo := repository.NewUserRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		trainRepo,
		producer,
		cfg.Kafka.BookingTopic,
		holdTTL,
		cfg.Booking.StudentDiscountPercent,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLocker(redisCache),
	)
	paymentService := payment.NewPaymentService(
		paymentRepo,
		bookingRepo,
		bookingService,
		cfg.Payments.Currency,
		holdTTL,
		payment.WithEvents(producer.WithRetries(3), cfg.Kafka.PaymentTopic, cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(userRepo)

	go func() {
		err := consumer.ConsumeEvents(ctx, func(ctx context.Context, event kafka.Event) error {
			if err := emailSender.Send(ctx, event); err != nil {
				if errors.Is(err, email.ErrUnsupportedEvent) {
					return nil
				}
				log.Printf("send %s email error: %v", event.Type, err)
			}
			return nil
		})
		if err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	expireTicker := time.NewTicker(time.Duration(cfg.Worker.ExpirationSweepMinutes) * time.Minute)
	defer expireTicker.Stop()

	for {
		select {
		case <-expireTicker.C:
			sweep(ctx, bookingService, paymentService)
		case <-ctx.Done():
			log.Printf("shutting down worker")
			return
		}
	}
}

func sweep(ctx context.Context, bookings booking.BookingUseCase, payments payment.PaymentUseCase) {
	expired, err := bookings.ExpirePendingBookings(ctx)
	if err != nil {
		log.Printf("expire bookings error: %v", err)
	} else if len(expired) > 0 {
		log.Printf("expired %d bookings", len(expired))
	}

	failed, err := payments.ExpireStalePayments(ctx)
	if err != nil {
		log.Printf("expire payments error: %v", err)
	} else if len(failed) > 0 {
		log.Printf("failed %d stale payments", len(failed))
	}
}
