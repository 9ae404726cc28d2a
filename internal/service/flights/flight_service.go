package flights

import (
	"context"

	"github.com/bsavchuk/aeroreserve/internal/domain"
	"github.com/bsavchuk/aeroreserve/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	ListSeats(ctx context.Context, flightID int64) ([]domain.Seat, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
}

type FlightService struct {
	repo  repository.FlightRepository
	seats repository.SeatRepository
	cache FlightCache
}

// NewFlightService wires the flight read model. The cache may be nil; TTL
// policy lives with the cache implementation.
func NewFlightService(repo repository.FlightRepository, seats repository.SeatRepository, cache FlightCache) *FlightService {
	return &FlightService{repo: repo, seats: seats, cache: cache}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) ListSeats(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	if _, err := s.repo.GetByID(ctx, flightID); err != nil {
		return nil, err
	}
	return s.seats.ListByFlight(ctx, flightID)
}

var _ FlightUseCase = (*FlightService)(nil)
