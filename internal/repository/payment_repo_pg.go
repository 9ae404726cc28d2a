package repository

import (
	"context"
	"errors"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, intentID string, status domain.PaymentStatus) (*domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT id, booking_id, intent_id, client_secret, amount_cents, currency, status, created_at, updated_at FROM payments WHERE intent_id=$1`, intentID)
	return scanPayment(row)
}

func (r *PGPaymentRepository) UpdateStatus(ctx context.Context, intentID string, status domain.PaymentStatus) (*domain.Payment, error) {
	row := r.db.QueryRow(ctx, `UPDATE payments SET status=$1, updated_at=now() WHERE intent_id=$2 RETURNING id, booking_id, intent_id, client_secret, amount_cents, currency, status, created_at, updated_at`, status, intentID)
	return scanPayment(row)
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var status string
	if err := row.Scan(&p.ID, &p.BookingID, &p.IntentID, &p.ClientSecret, &p.AmountCents, &p.Currency, &status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	p.Status = domain.ParsePaymentStatus(status)
	return &p, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
