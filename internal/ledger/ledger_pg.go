package ledger

import (
	"context"
	"errors"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGSeatLedger claims seats with a conditional row update. The UPDATE takes
// a row lock, so two concurrent claims serialize on the seat row and the
// second one sees available=false. The active-booking check runs inside the
// same transaction as defense against the flag going stale.
type PGSeatLedger struct {
	db *pgxpool.Pool
}

func NewPGSeatLedger(db *pgxpool.Pool) *PGSeatLedger {
	return &PGSeatLedger{db: db}
}

func (l *PGSeatLedger) Claim(ctx context.Context, seatID int64) error {
	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx, `UPDATE seats SET available=false WHERE id=$1 AND available RETURNING id`, seatID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return l.claimFailure(ctx, seatID)
		}
		return err
	}

	var active bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE seat_id=$1 AND status NOT IN ($2, $3))`,
		seatID, domain.BookingStatusCancelled, domain.BookingStatusRefunded).Scan(&active); err != nil {
		return err
	}
	if active {
		return domain.ErrSeatConflict
	}

	return tx.Commit(ctx)
}

func (l *PGSeatLedger) Release(ctx context.Context, seatID int64) error {
	_, err := l.db.Exec(ctx, `UPDATE seats SET available=true WHERE id=$1`, seatID)
	return err
}

func (l *PGSeatLedger) HasActiveBooking(ctx context.Context, seatID int64) (bool, error) {
	var active bool
	err := l.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE seat_id=$1 AND status NOT IN ($2, $3))`,
		seatID, domain.BookingStatusCancelled, domain.BookingStatusRefunded).Scan(&active)
	return active, err
}

func (l *PGSeatLedger) claimFailure(ctx context.Context, seatID int64) error {
	var exists bool
	if err := l.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM seats WHERE id=$1)`, seatID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrSeatNotFound
	}
	return domain.ErrSeatConflict
}

var _ SeatLedger = (*PGSeatLedger)(nil)
