package ledger

import (
	"context"
	"sync"

	"github.com/bsavchuk/aeroreserve/internal/domain"
)

// MemorySeatLedger keeps claim state in process under a single mutex.
// Suitable for single-node runs and tests; claims are atomic because the
// check and the write happen under the same lock.
type MemorySeatLedger struct {
	mu      sync.Mutex
	claimed map[int64]bool
	active  map[int64]bool
}

func NewMemorySeatLedger() *MemorySeatLedger {
	return &MemorySeatLedger{
		claimed: make(map[int64]bool),
		active:  make(map[int64]bool),
	}
}

func (l *MemorySeatLedger) Claim(ctx context.Context, seatID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.claimed[seatID] || l.active[seatID] {
		return domain.ErrSeatConflict
	}
	l.claimed[seatID] = true
	return nil
}

func (l *MemorySeatLedger) Release(ctx context.Context, seatID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.claimed, seatID)
	return nil
}

func (l *MemorySeatLedger) HasActiveBooking(ctx context.Context, seatID int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active[seatID], nil
}

// MarkActive records that a non-terminal booking references the seat.
// Used by callers that track booking lifecycle outside a database.
func (l *MemorySeatLedger) MarkActive(seatID int64, active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if active {
		l.active[seatID] = true
	} else {
		delete(l.active, seatID)
	}
}

// Claimed reports the current claim state of a seat.
func (l *MemorySeatLedger) Claimed(seatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.claimed[seatID]
}

var _ SeatLedger = (*MemorySeatLedger)(nil)
