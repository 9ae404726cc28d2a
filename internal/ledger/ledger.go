// Package ledger tracks per-seat claim state. A claim marks the seat
// unavailable and may only succeed while no active booking references it;
// concurrent claims on the same seat resolve to exactly one winner.
package ledger

import "context"

type SeatLedger interface {
	// Claim marks the seat unavailable. Exactly one of two concurrent
	// claims on the same seat succeeds; the loser gets
	// domain.ErrSeatConflict.
	Claim(ctx context.Context, seatID int64) error

	// Release marks the seat available again. Idempotent: releasing an
	// already-available seat is a no-op.
	Release(ctx context.Context, seatID int64) error

	// HasActiveBooking consults booking records directly, guarding
	// against a stale availability flag after a partial failure.
	HasActiveBooking(ctx context.Context, seatID int64) (bool, error)
}
