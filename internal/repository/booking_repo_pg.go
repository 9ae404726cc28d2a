package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// CreatePendingWithPayment inserts the booking and its payment row in
	// one transaction. The caller has already claimed the seat; on error
	// nothing persists and the caller compensates by releasing the claim.
	CreatePendingWithPayment(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error

	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindByPaymentIntentID(ctx context.Context, intentID string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error)
	ListStalePending(ctx context.Context, before time.Time) ([]domain.Booking, error)

	// UpdateStatus moves the booking to status provided it is currently in
	// one of the from statuses. ErrInvalidStateTransition otherwise.
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, from ...domain.BookingStatus) (*domain.Booking, error)

	// FinishBooking closes a booking in one transaction: status write
	// (guarded on the from statuses), seat release, cancellation of an
	// issued ticket if present, and an optional payment status write
	// (skipped when paymentStatus is empty).
	FinishBooking(ctx context.Context, id int64, status domain.BookingStatus, paymentStatus domain.PaymentStatus, from ...domain.BookingStatus) (*domain.Booking, error)

	// HasActiveBookingForSeat reports whether any non-terminal booking
	// references the seat. Defense against a stale availability flag.
	HasActiveBookingForSeat(ctx context.Context, seatID int64) (bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingSelect = `SELECT b.id, b.booking_number, b.user_id, b.flight_id, b.seat_id, b.passenger_name, b.total_cents, b.status, b.created_at, b.updated_at,
	p.id, p.intent_id, p.client_secret, p.amount_cents, p.currency, p.status, p.created_at, p.updated_at
	FROM bookings b LEFT JOIN payments p ON p.booking_id = b.id`

func (r *PGBookingRepository) CreatePendingWithPayment(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	booking.Status = domain.BookingStatusPendingPayment
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (booking_number, user_id, flight_id, seat_id, passenger_name, total_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		booking.BookingNumber, booking.UserID, booking.FlightID, booking.SeatID, booking.PassengerName, booking.TotalCents, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	payment.BookingID = booking.ID
	if err := tx.QueryRow(ctx, `INSERT INTO payments (booking_id, intent_id, client_secret, amount_cents, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		payment.BookingID, payment.IntentID, payment.ClientSecret, payment.AmountCents, payment.Currency, payment.Status).
		Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt); err != nil {
		return err
	}
	booking.Payment = payment

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, bookingSelect+` WHERE b.id=$1`, id)
	return scanBooking(row)
}

func (r *PGBookingRepository) FindByPaymentIntentID(ctx context.Context, intentID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, bookingSelect+` WHERE p.intent_id=$1`, intentID)
	return scanBooking(row)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE b.user_id=$1 ORDER BY b.created_at DESC`, userID)
}

func (r *PGBookingRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE b.flight_id=$1 ORDER BY b.created_at DESC`, flightID)
}

func (r *PGBookingRepository) ListStalePending(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE b.status=$1 AND b.created_at <= $2`, domain.BookingStatusPendingPayment, before)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, from ...domain.BookingStatus) (*domain.Booking, error) {
	tag, err := r.db.Exec(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 AND status = ANY($3)`, status, id, statusList(from))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, r.transitionError(ctx, id)
	}
	return r.GetByID(ctx, id)
}

func (r *PGBookingRepository) FinishBooking(ctx context.Context, id int64, status domain.BookingStatus, paymentStatus domain.PaymentStatus, from ...domain.BookingStatus) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var seatID int64
	if err := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 AND status = ANY($3) RETURNING seat_id`,
		status, id, statusList(from)).Scan(&seatID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionError(ctx, id)
		}
		return nil, err
	}

	// Release is idempotent: an already-available seat is a no-op.
	if _, err := tx.Exec(ctx, `UPDATE seats SET available=true WHERE id=$1`, seatID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE tickets SET status=$1 WHERE booking_id=$2 AND status=$3`,
		domain.TicketStatusCancelled, id, domain.TicketStatusIssued); err != nil {
		return nil, err
	}

	if paymentStatus != "" {
		if _, err := tx.Exec(ctx, `UPDATE payments SET status=$1, updated_at=now() WHERE booking_id=$2`, paymentStatus, id); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PGBookingRepository) HasActiveBookingForSeat(ctx context.Context, seatID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE seat_id=$1 AND status NOT IN ($2, $3))`,
		seatID, domain.BookingStatusCancelled, domain.BookingStatusRefunded).Scan(&exists)
	return exists, err
}

// transitionError distinguishes a missing booking from a forbidden
// transition after a guarded UPDATE touched no rows.
func (r *PGBookingRepository) transitionError(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrBookingNotFound
	}
	return domain.ErrInvalidStateTransition
}

func statusList(statuses []domain.BookingStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var (
		payID     *int64
		intentID  *string
		secret    *string
		amount    *int64
		currency  *string
		payStatus *string
		payCreate *time.Time
		payUpdate *time.Time
	)
	if err := row.Scan(&b.ID, &b.BookingNumber, &b.UserID, &b.FlightID, &b.SeatID, &b.PassengerName, &b.TotalCents, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		&payID, &intentID, &secret, &amount, &currency, &payStatus, &payCreate, &payUpdate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	if payID != nil {
		b.Payment = &domain.Payment{
			ID:           *payID,
			BookingID:    b.ID,
			IntentID:     *intentID,
			ClientSecret: *secret,
			AmountCents:  *amount,
			Currency:     *currency,
			Status:       domain.ParsePaymentStatus(*payStatus),
			CreatedAt:    *payCreate,
			UpdatedAt:    *payUpdate,
		}
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
