package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	CreatePending(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetByProviderOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	SetProviderOrderID(ctx context.Context, id, orderID string) error
	// Complete marks a pending payment completed. It returns ErrNotFound
	// when the payment does not exist or is no longer pending.
	Complete(ctx context.Context, id, providerPaymentID string) (*domain.Payment, error)
	Fail(ctx context.Context, id string) error
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

const paymentColumns = `id, user_id, booking_id, provider, amount_paise, currency, status, provider_order_id, provider_payment_id, created_at, updated_at`

func (r *PGPaymentRepository) CreatePending(ctx context.Context, p *domain.Payment) error {
	p.Status = domain.PaymentStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO payments (id, user_id, booking_id, provider, amount_paise, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.UserID, p.BookingID, p.Provider, p.AmountPaise, p.Currency, p.Status).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PGPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id))
}

func (r *PGPaymentRepository) GetByProviderOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE provider_order_id=$1 AND provider_order_id <> ''`, orderID))
}

func (r *PGPaymentRepository) SetProviderOrderID(ctx context.Context, id, orderID string) error {
	res, err := r.db.Exec(ctx, `UPDATE payments SET provider_order_id=$1, updated_at=now() WHERE id=$2`, orderID, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGPaymentRepository) Complete(ctx context.Context, id, providerPaymentID string) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, `UPDATE payments SET status=$1, provider_payment_id=$2, updated_at=now()
		WHERE id=$3 AND status=$4 RETURNING `+paymentColumns,
		domain.PaymentStatusCompleted, providerPaymentID, id, domain.PaymentStatusPending))
}

func (r *PGPaymentRepository) Fail(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE payments SET status=$1, updated_at=now() WHERE id=$2 AND status=$3`,
		domain.PaymentStatusFailed, id, domain.PaymentStatusPending)
	return err
}

func (r *PGPaymentRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, `UPDATE payments SET status=$1, updated_at=now() WHERE status=$2 AND created_at <= $3 RETURNING `+paymentColumns,
		domain.PaymentStatusFailed, domain.PaymentStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *p)
	}
	return expired, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.UserID, &p.BookingID, &p.Provider, &p.AmountPaise, &p.Currency, &p.Status,
		&p.ProviderOrderID, &p.ProviderPaymentID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
