package booking

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Kind identifies a built-in tool
type Kind uint

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	KindNone Kind = iota
	KindSearchTrips
	KindBookingDetails
	KindCancelBooking
	KindBookTicket
)

const (
	SearchTrips    = "search_trips"
	BookingDetails = "get_booking_details"
	CancelBooking  = "cancel_booking"
	BookTicket     = "book_ticket"
)

var kinds = map[string]Kind{
	SearchTrips:    KindSearchTrips,
	BookingDetails: KindBookingDetails,
	CancelBooking:  KindCancelBooking,
	BookTicket:     KindBookTicket,
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// KindOf returns the kind for an exact tool name, or KindNone
func KindOf(name string) Kind {
	return kinds[name]
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (k Kind) String() string {
	switch k {
	case KindSearchTrips:
		return SearchTrips
	case KindBookingDetails:
		return BookingDetails
	case KindCancelBooking:
		return CancelBooking
	case KindBookTicket:
		return BookTicket
	default:
		return "none"
	}
}
