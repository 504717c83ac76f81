// Package booking provides the built-in travel-booking tools: their
// definitions for the manifest, argument validation and a closed dispatch
// table onto a Backend.
package booking

import (
	"context"
	"errors"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	tool "github.com/mutablelogic/go-travel-agent/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Tools executes built-in tool requests against a backend
type Tools struct {
	backend agent.Backend
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns the built-in tools for a backend
func New(backend agent.Backend) (*Tools, error) {
	if backend == nil {
		return nil, agent.ErrBadParameter.With("backend is required")
	}
	return &Tools{backend: backend}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Definitions returns the definitions of the built-in tools, in dispatch
// table order
func Definitions() ([]schema.ToolDefinition, error) {
	var result []schema.ToolDefinition
	var errs error
	add := func(def schema.ToolDefinition, err error) {
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			result = append(result, def)
		}
	}
	add(tool.NewDefinition[SearchTripsRequest](SearchTrips, "Search available bus trips by route, city or date. Returns trip IDs, stops and fares."))
	add(tool.NewDefinition[BookingDetailsRequest](BookingDetails, "Get the details of one of the user's bookings."))
	add(tool.NewDefinition[CancelBookingRequest](CancelBooking, "Cancel one of the user's bookings."))
	add(tool.NewDefinition[BookTicketRequest](BookTicket, "Book a ticket on a trip between two of its stops."))
	return result, errs
}

// Execute runs a validated request on behalf of the caller and returns the
// backend text
func (t *Tools) Execute(ctx context.Context, req Request, callerId string) (string, error) {
	switch req := req.(type) {
	case SearchTripsRequest:
		return t.backend.SearchTrips(ctx, req.Query)
	case BookingDetailsRequest:
		return t.backend.BookingDetails(ctx, callerId, req.BookingId)
	case CancelBookingRequest:
		return t.backend.CancelBooking(ctx, callerId, req.BookingId)
	case BookTicketRequest:
		return t.backend.BookTicket(ctx, callerId, req.TripId, req.PickupStopId, req.DropStopId, req.Amount)
	default:
		return "", agent.ErrUnknownTool.Withf("%T", req)
	}
}
