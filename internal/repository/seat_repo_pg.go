package repository

import (
	"context"
	"errors"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeatRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Seat, error)
	GetByFlightAndNumber(ctx context.Context, flightID int64, seatNumber string) (*domain.Seat, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Seat, error)
}

type PGSeatRepository struct {
	db *pgxpool.Pool
}

func NewSeatRepository(db *pgxpool.Pool) SeatRepository {
	return &PGSeatRepository{db: db}
}

func (r *PGSeatRepository) GetByID(ctx context.Context, id int64) (*domain.Seat, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_id, seat_number, seat_class, available FROM seats WHERE id=$1`, id)
	return scanSeat(row)
}

func (r *PGSeatRepository) GetByFlightAndNumber(ctx context.Context, flightID int64, seatNumber string) (*domain.Seat, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_id, seat_number, seat_class, available FROM seats WHERE flight_id=$1 AND seat_number=$2`, flightID, seatNumber)
	return scanSeat(row)
}

func (r *PGSeatRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	rows, err := r.db.Query(ctx, `SELECT id, flight_id, seat_number, seat_class, available FROM seats WHERE flight_id=$1 ORDER BY seat_number`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Class, &s.Available); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

func scanSeat(row pgx.Row) (*domain.Seat, error) {
	var s domain.Seat
	if err := row.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Class, &s.Available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

var _ SeatRepository = (*PGSeatRepository)(nil)
