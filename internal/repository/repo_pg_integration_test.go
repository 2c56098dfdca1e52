//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("travelease"),
		postgres.WithUsername("travelease"),
		postgres.WithPassword("travelease"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	// second run must be a no-op
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	users := NewUserRepository(pool)
	bookings := NewBookingRepository(pool)
	payments := NewPaymentRepository(pool)

	user := &domain.User{ID: uuid.NewString(), Email: "asha@iitd.ac.in", Name: "Asha", PasswordHash: "hash", IsStudent: true}
	require.NoError(t, users.Create(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	dup := &domain.User{ID: uuid.NewString(), Email: "asha@iitd.ac.in", PasswordHash: "x"}
	assert.ErrorIs(t, users.Create(ctx, dup), ErrDuplicate)

	got, err := users.GetByEmail(ctx, "ASHA@iitd.ac.in")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.False(t, got.EmailVerified)

	require.NoError(t, users.MarkEmailVerified(ctx, user.ID))
	require.NoError(t, users.UpdatePassword(ctx, user.ID, "hash2"))
	got, err = users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)
	assert.Equal(t, "hash2", got.PasswordHash)

	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, users.MarkEmailVerified(ctx, "missing"), ErrNotFound)

	booking := &domain.Booking{
		ID: uuid.NewString(), UserID: user.ID, ScheduleID: "schedule-1", TravelDate: "2023-06-15",
		Passengers: 3, UnitPricePaise: 225000, TotalPaise: 675000, DiscountPercent: 15, AmountDuePaise: 573750,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, bookings.CreatePending(ctx, booking))
	assert.Equal(t, domain.BookingStatusPending, booking.Status)

	list, err := bookings.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(573750), list[0].AmountDuePaise)

	ids, err := bookings.ListIDsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{booking.ID}, ids)

	payment := &domain.Payment{ID: uuid.NewString(), UserID: user.ID, BookingID: booking.ID, Provider: domain.PaymentProviderRazorpay, AmountPaise: 573750, Currency: "INR"}
	require.NoError(t, payments.CreatePending(ctx, payment))
	require.NoError(t, payments.SetProviderOrderID(ctx, payment.ID, "order_1"))

	byOrder, err := payments.GetByProviderOrderID(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, payment.ID, byOrder.ID)

	completed, err := payments.Complete(ctx, payment.ID, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, completed.Status)
	assert.Equal(t, "pay_1", completed.ProviderPaymentID)

	_, err = payments.Complete(ctx, payment.ID, "pay_2")
	assert.ErrorIs(t, err, ErrNotFound)

	expired, err := bookings.ExpirePendingBefore(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, domain.BookingStatusExpired, expired[0].Status)

	_, err = bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)

	cancelled, err := bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusExpired, domain.BookingStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
}
