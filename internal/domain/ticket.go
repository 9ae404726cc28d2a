package domain

import "time"

type TicketStatus string

const (
	TicketStatusIssued    TicketStatus = "ISSUED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// BoardingLead is how long before departure boarding opens.
const BoardingLead = 45 * time.Minute

type Ticket struct {
	ID           int64
	BookingID    int64
	TicketNumber string
	Status       TicketStatus
	BoardingTime time.Time
	CreatedAt    time.Time
}
