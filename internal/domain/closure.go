package domain

// Closure is a period during which a hotel takes no bookings (holidays,
// maintenance). Both ends are inclusive.
type Closure struct {
	ID      string
	HotelID string
	Period  DateRange
	Reason  string
}
