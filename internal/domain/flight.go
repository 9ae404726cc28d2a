package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
	FlightStatusCompleted FlightStatus = "COMPLETED"
)

type Flight struct {
	ID            int64
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	PriceCents    int64
	Status        FlightStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
