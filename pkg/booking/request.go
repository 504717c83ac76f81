package booking

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Request is the validated arguments of a built-in tool call. The concrete
// type is one of the request structs below.
type Request interface {
	Kind() Kind
}

type SearchTripsRequest struct {
	Query string `json:"query" jsonschema:"Free text describing the trip, such as origin and destination cities or a date"`
}

type BookingDetailsRequest struct {
	BookingId uint64 `json:"bookingId" jsonschema:"Numeric booking ID"`
}

type CancelBookingRequest struct {
	BookingId uint64 `json:"bookingId" jsonschema:"Numeric booking ID of the booking to cancel"`
}

type BookTicketRequest struct {
	TripId       uint64  `json:"tripId" jsonschema:"Numeric trip ID from search_trips"`
	PickupStopId uint64  `json:"pickupStopId" jsonschema:"Numeric stop ID where the passenger boards"`
	DropStopId   uint64  `json:"dropStopId" jsonschema:"Numeric stop ID where the passenger leaves"`
	Amount       float64 `json:"amount" jsonschema:"Fare to pay"`
}

// ValidationError is an argument which failed validation. The message is
// addressed to the user.
type ValidationError struct {
	Field   string
	Message string
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	MessageBookingId = "I need a valid booking ID number to help with that. Please share the numeric booking ID."
	MessageTripId    = "I need valid trip and stop ID numbers to book a ticket. Please share the numeric trip ID and the pickup and drop stop IDs."
	MessageAmount    = "I need a valid amount to book a ticket. Please share the fare as a number."
	MessageQuery     = "I need to know which trip to search for. Please share a route, a city or a date."
)

var _ Request = SearchTripsRequest{}
var _ Request = BookingDetailsRequest{}
var _ Request = CancelBookingRequest{}
var _ Request = BookTicketRequest{}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Parse validates the arguments for a built-in tool and returns its request.
// A failure is a *ValidationError which wraps agent.ErrBadParameter.
func Parse(kind Kind, args map[string]any) (Request, error) {
	switch kind {
	case KindSearchTrips:
		query, _ := args["query"].(string)
		if query = strings.TrimSpace(query); query == "" {
			return nil, &ValidationError{"query", MessageQuery}
		}
		return SearchTripsRequest{Query: query}, nil
	case KindBookingDetails:
		id, ok := ParseId(args["bookingId"])
		if !ok {
			return nil, &ValidationError{"bookingId", MessageBookingId}
		}
		return BookingDetailsRequest{BookingId: id}, nil
	case KindCancelBooking:
		id, ok := ParseId(args["bookingId"])
		if !ok {
			return nil, &ValidationError{"bookingId", MessageBookingId}
		}
		return CancelBookingRequest{BookingId: id}, nil
	case KindBookTicket:
		var req BookTicketRequest
		for _, field := range []struct {
			name string
			dest *uint64
		}{
			{"tripId", &req.TripId}, {"pickupStopId", &req.PickupStopId}, {"dropStopId", &req.DropStopId},
		} {
			id, ok := ParseId(args[field.name])
			if !ok {
				return nil, &ValidationError{field.name, MessageTripId}
			}
			*field.dest = id
		}
		amount, ok := ParseAmount(args["amount"])
		if !ok {
			return nil, &ValidationError{"amount", MessageAmount}
		}
		req.Amount = amount
		return req, nil
	default:
		return nil, agent.ErrUnknownTool.With(kind)
	}
}

// ParseId returns a positive integer identifier from a JSON number or a
// string of digits, optionally prefixed with '#'
func ParseId(v any) (uint64, bool) {
	var id uint64
	switch v := v.(type) {
	case json.Number:
		return ParseId(v.String())
	case string:
		str := strings.TrimPrefix(strings.TrimSpace(v), "#")
		if n, err := strconv.ParseUint(str, 10, 64); err != nil {
			return 0, false
		} else {
			id = n
		}
	case float64:
		if v < 1 || v != math.Trunc(v) || v > math.MaxInt64 {
			return 0, false
		}
		id = uint64(v)
	case int:
		if v < 1 {
			return 0, false
		}
		id = uint64(v)
	case int64:
		if v < 1 {
			return 0, false
		}
		id = uint64(v)
	case uint64:
		id = v
	default:
		return 0, false
	}
	return id, id > 0
}

// ParseAmount returns a positive finite amount from a JSON number or a
// numeric string
func ParseAmount(v any) (float64, bool) {
	var amount float64
	switch v := v.(type) {
	case json.Number:
		return ParseAmount(v.String())
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return 0, false
		} else {
			amount = f
		}
	case float64:
		amount = v
	case int:
		amount = float64(v)
	case int64:
		amount = float64(v)
	default:
		return 0, false
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, false
	}
	return amount, true
}

func (SearchTripsRequest) Kind() Kind    { return KindSearchTrips }
func (BookingDetailsRequest) Kind() Kind { return KindBookingDetails }
func (CancelBookingRequest) Kind() Kind  { return KindCancelBooking }
func (BookTicketRequest) Kind() Kind     { return KindBookTicket }

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return agent.ErrBadParameter
}
