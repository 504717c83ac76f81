package booking_test

import (
	"context"
	"encoding/json"
	"testing"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
	booking "github.com/mutablelogic/go-travel-agent/pkg/booking"
	memory "github.com/mutablelogic/go-travel-agent/pkg/booking/memory"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func Test_booking_001(t *testing.T) {
	// Definitions follow the dispatch table
	assert := assert.New(t)
	defs, err := booking.Definitions()
	require.NoError(t, err)
	require.Len(t, defs, 4)
	for _, def := range defs {
		assert.NotEqual(booking.KindNone, booking.KindOf(def.Name), def.Name)
		assert.Equal(def.Name, booking.KindOf(def.Name).String())
		assert.NotEmpty(def.Description)
	}
	assert.Equal([]string{"bookingId"}, defs[1].Required())
	assert.ElementsMatch([]string{"tripId", "pickupStopId", "dropStopId", "amount"}, defs[3].Required())
	assert.Equal("integer", defs[1].Parameters[0].Type)
}

func Test_booking_002(t *testing.T) {
	// Unknown names have no kind
	assert := assert.New(t)
	assert.Equal(booking.KindNone, booking.KindOf("list-events"))
	assert.Equal(booking.KindNone, booking.KindOf("Search_Trips"))
	_, err := booking.Parse(booking.KindNone, nil)
	assert.ErrorIs(err, agent.ErrUnknownTool)
}

func Test_booking_003(t *testing.T) {
	// Identifiers accept numbers and digit strings
	assert := assert.New(t)
	for _, v := range []any{json.Number("42"), "42", " 42 ", "#42", float64(42), 42, int64(42), uint64(42)} {
		id, ok := booking.ParseId(v)
		assert.True(ok, v)
		assert.Equal(uint64(42), id)
	}
	for _, v := range []any{nil, "abc", "", "4.2", "-1", float64(4.2), float64(0), 0, -3, json.Number("1e3x"), true, map[string]any{}} {
		_, ok := booking.ParseId(v)
		assert.False(ok, v)
	}
}

func Test_booking_004(t *testing.T) {
	// A malformed booking id yields the fixed message
	assert := assert.New(t)
	for _, kind := range []booking.Kind{booking.KindBookingDetails, booking.KindCancelBooking} {
		_, err := booking.Parse(kind, map[string]any{"bookingId": "abc"})
		assert.ErrorIs(err, agent.ErrBadParameter)
		assert.EqualError(err, booking.MessageBookingId)
		var verr *booking.ValidationError
		if assert.ErrorAs(err, &verr) {
			assert.Equal("bookingId", verr.Field)
		}
	}
}

func Test_booking_005(t *testing.T) {
	// Book ticket validates every identifier and the amount
	assert := assert.New(t)
	req, err := booking.Parse(booking.KindBookTicket, map[string]any{
		"tripId": "101", "pickupStopId": json.Number("1"), "dropStopId": float64(4), "amount": "450.50",
	})
	require.NoError(t, err)
	assert.Equal(booking.BookTicketRequest{TripId: 101, PickupStopId: 1, DropStopId: 4, Amount: 450.5}, req)

	_, err = booking.Parse(booking.KindBookTicket, map[string]any{"tripId": "101", "pickupStopId": "x", "dropStopId": 4, "amount": 1})
	assert.EqualError(err, booking.MessageTripId)
	_, err = booking.Parse(booking.KindBookTicket, map[string]any{"tripId": 101, "pickupStopId": 1, "dropStopId": 4, "amount": "free"})
	assert.EqualError(err, booking.MessageAmount)
	_, err = booking.Parse(booking.KindBookTicket, map[string]any{"tripId": 101, "pickupStopId": 1, "dropStopId": 4, "amount": -5})
	assert.EqualError(err, booking.MessageAmount)
}

func Test_booking_006(t *testing.T) {
	// Search requires a query
	assert := assert.New(t)
	_, err := booking.Parse(booking.KindSearchTrips, map[string]any{"query": "  "})
	assert.EqualError(err, booking.MessageQuery)
	req, err := booking.Parse(booking.KindSearchTrips, map[string]any{"query": " Goa "})
	assert.NoError(err)
	assert.Equal(booking.SearchTripsRequest{Query: "Goa"}, req)
}

func Test_booking_007(t *testing.T) {
	// Execute reaches the backend for each request type
	assert := assert.New(t)
	backend, err := memory.New()
	require.NoError(t, err)
	tools, err := booking.New(backend)
	require.NoError(t, err)
	ctx := context.Background()

	text, err := tools.Execute(ctx, booking.SearchTripsRequest{Query: "Mysuru"}, "alice")
	assert.NoError(err)
	assert.Contains(text, "Trip 301")

	text, err = tools.Execute(ctx, booking.BookTicketRequest{TripId: 301, PickupStopId: 8, DropStopId: 10, Amount: 300}, "alice")
	assert.NoError(err)
	assert.Contains(text, "Booking 1001")

	text, err = tools.Execute(ctx, booking.BookingDetailsRequest{BookingId: 1001}, "alice")
	assert.NoError(err)
	assert.Contains(text, "Bengaluru Majestic")

	text, err = tools.Execute(ctx, booking.CancelBookingRequest{BookingId: 1001}, "alice")
	assert.NoError(err)
	assert.Contains(text, "cancelled")

	_, err = tools.Execute(ctx, nil, "alice")
	assert.ErrorIs(err, agent.ErrUnknownTool)

	_, err = booking.New(nil)
	assert.ErrorIs(err, agent.ErrBadParameter)
}
