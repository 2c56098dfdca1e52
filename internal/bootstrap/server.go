package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/travelease/api"
	"github.com/Domenick1991/travelease/config"
	"github.com/Domenick1991/travelease/internal/identity"
	"github.com/Domenick1991/travelease/internal/responses"
	"github.com/Domenick1991/travelease/internal/service/booking"
	"github.com/Domenick1991/travelease/internal/service/payment"
	"github.com/Domenick1991/travelease/internal/service/trains"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const swaggerFile = "travelease.swagger.json"

var errPanic = errors.New("something went wrong, please try again")

// HealthCheck is one dependency probed by GET /health.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Services struct {
	Identity  identity.IdentityUseCase
	Trains    trains.TrainUseCase
	Bookings  booking.BookingUseCase
	Payments  payment.PaymentUseCase
	Assistant api.Assistant
	Health    []HealthCheck
}

// Run serves the HTTP API and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		responses.AbortFail(c, http.StatusInternalServerError, errPanic)
	}))
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.HTTP.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/health", health(svc.Health))

	v1 := router.Group("/api/v1")
	api.NewTrainHandler(svc.Trains).Register(v1.Group("", api.OptionalSession(svc.Identity)))
	api.NewAuthHandler(svc.Identity).Register(v1)
	api.NewBookingHandler(svc.Bookings).Register(v1.Group("/bookings", api.RequireSession(svc.Identity)))
	payments := api.NewPaymentHandler(svc.Payments, svc.Identity)
	payments.Register(v1)
	api.NewChatHandler(svc.Assistant).Register(v1)

	payments.RegisterServerRoutes(router.Group("/api"))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/"+swaggerFile))))
	}

	return router
}

func health(checks []HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{}
		healthy := true
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				status[hc.Name] = err.Error()
				healthy = false
				continue
			}
			status[hc.Name] = "ok"
		}
		if !healthy {
			c.JSON(http.StatusServiceUnavailable, responses.APIResponse{Success: false, Data: status, Error: "unhealthy"})
			return
		}
		responses.Success(c, http.StatusOK, status)
	}
}
