package domain

type SeatClass string

const (
	SeatClassEconomy  SeatClass = "ECONOMY"
	SeatClassBusiness SeatClass = "BUSINESS"
	SeatClassFirst    SeatClass = "FIRST"
)

type Seat struct {
	ID         int64
	FlightID   int64
	SeatNumber string
	Class      SeatClass
	Available  bool
}
