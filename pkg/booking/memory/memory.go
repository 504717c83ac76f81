// Package memory implements an in-process booking backend with a fixed
// timetable, for development and tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	agent "github.com/mutablelogic/go-travel-agent"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Backend struct {
	mu       sync.Mutex
	trips    []Trip
	bookings map[uint64]*Booking
	nextId   uint64
	now      func() time.Time
}

type Trip struct {
	Id        uint64
	Route     string
	Departure string
	Fare      float64
	Seats     uint
	Stops     []Stop
}

type Stop struct {
	Id   uint64
	Name string
}

type Booking struct {
	Id        uint64
	Reference string
	Caller    string
	Trip      uint64
	Pickup    uint64
	Drop      uint64
	Amount    float64
	Status    string
	Created   time.Time
}

type Opt func(*Backend) error

var _ agent.Backend = (*Backend)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

var timetable = []Trip{
	{Id: 101, Route: "Pune to Mumbai", Departure: "06:30", Fare: 450, Seats: 40, Stops: []Stop{{1, "Pune Swargate"}, {2, "Lonavala"}, {3, "Panvel"}, {4, "Mumbai Dadar"}}},
	{Id: 102, Route: "Mumbai to Pune", Departure: "18:00", Fare: 450, Seats: 40, Stops: []Stop{{4, "Mumbai Dadar"}, {3, "Panvel"}, {2, "Lonavala"}, {1, "Pune Swargate"}}},
	{Id: 201, Route: "Pune to Goa", Departure: "21:15", Fare: 1200, Seats: 30, Stops: []Stop{{1, "Pune Swargate"}, {5, "Satara"}, {6, "Kolhapur"}, {7, "Panaji"}}},
	{Id: 301, Route: "Bengaluru to Mysuru", Departure: "07:45", Fare: 300, Seats: 45, Stops: []Stop{{8, "Bengaluru Majestic"}, {9, "Mandya"}, {10, "Mysuru"}}},
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a backend seeded with the default timetable
func New(opts ...Opt) (*Backend, error) {
	b := &Backend{
		trips:    slices.Clone(timetable),
		bookings: make(map[uint64]*Booking),
		nextId:   1000,
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// WithTrips replaces the timetable
func WithTrips(trips ...Trip) Opt {
	return func(b *Backend) error {
		for _, trip := range trips {
			if trip.Id == 0 || len(trip.Stops) < 2 {
				return agent.ErrBadParameter.Withf("trip %d: an id and at least two stops are required", trip.Id)
			}
		}
		b.trips = slices.Clone(trips)
		return nil
	}
}

// WithClock sets the time source for booking timestamps
func WithClock(fn func() time.Time) Opt {
	return func(b *Backend) error {
		if fn == nil {
			return agent.ErrBadParameter.With("clock is required")
		}
		b.now = fn
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// SearchTrips returns trips where every word of the query matches the
// route or a stop name
func (b *Backend) SearchTrips(ctx context.Context, query string) (string, error) {
	words := strings.Fields(strings.ToLower(query))

	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	for _, trip := range b.trips {
		if !trip.matches(words) {
			continue
		}
		fmt.Fprintf(&sb, "Trip %d: %s, departs %s, fare %.2f, %d seats available\n", trip.Id, trip.Route, trip.Departure, trip.Fare, b.seats(trip))
		for _, stop := range trip.Stops {
			fmt.Fprintf(&sb, "  Stop %d: %s\n", stop.Id, stop.Name)
		}
	}
	if sb.Len() == 0 {
		return fmt.Sprintf("No trips found matching %q.", query), nil
	}
	return strings.TrimSpace(sb.String()), nil
}

// BookingDetails returns a booking owned by the caller
func (b *Backend) BookingDetails(ctx context.Context, callerId string, bookingId uint64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	booking, err := b.booking(callerId, bookingId)
	if err != nil {
		return "", err
	}
	return b.describe(booking), nil
}

// CancelBooking cancels a confirmed booking owned by the caller
func (b *Backend) CancelBooking(ctx context.Context, callerId string, bookingId uint64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	booking, err := b.booking(callerId, bookingId)
	if err != nil {
		return "", err
	}
	if booking.Status == StatusCancelled {
		return fmt.Sprintf("Booking %d is already cancelled.", booking.Id), nil
	}
	booking.Status = StatusCancelled
	return fmt.Sprintf("Booking %d has been cancelled. A refund of %.2f will be issued.", booking.Id, booking.Amount), nil
}

// BookTicket books a seat between two stops of a trip, in travel order
func (b *Backend) BookTicket(ctx context.Context, callerId string, tripId, pickupStopId, dropStopId uint64, amount float64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Check the trip and stops
	trip := b.trip(tripId)
	if trip == nil {
		return "", agent.ErrNotFound.Withf("trip %d", tripId)
	}
	pickup, drop := trip.stopIndex(pickupStopId), trip.stopIndex(dropStopId)
	if pickup < 0 || drop < 0 {
		return "", agent.ErrNotFound.Withf("trip %d does not stop at %d and %d", tripId, pickupStopId, dropStopId)
	} else if pickup >= drop {
		return "", agent.ErrBadParameter.Withf("trip %d reaches stop %d before stop %d", tripId, dropStopId, pickupStopId)
	}
	if b.seats(*trip) == 0 {
		return "", agent.ErrConflict.Withf("trip %d is full", tripId)
	}
	if amount < trip.Fare {
		return "", agent.ErrBadParameter.Withf("the fare for trip %d is %.2f", tripId, trip.Fare)
	}

	// Create the booking
	b.nextId++
	booking := &Booking{
		Id:        b.nextId,
		Reference: strings.ToUpper(uuid.NewString()[:8]),
		Caller:    callerId,
		Trip:      tripId,
		Pickup:    pickupStopId,
		Drop:      dropStopId,
		Amount:    amount,
		Status:    StatusConfirmed,
		Created:   b.now(),
	}
	b.bookings[booking.Id] = booking

	// Return success
	return "Booked. " + b.describe(booking), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// booking returns a booking owned by the caller. Bookings owned by other
// callers are reported as not found.
func (b *Backend) booking(callerId string, bookingId uint64) (*Booking, error) {
	booking, exists := b.bookings[bookingId]
	if !exists || booking.Caller != callerId {
		return nil, agent.ErrNotFound.Withf("booking %d", bookingId)
	}
	return booking, nil
}

func (b *Backend) trip(id uint64) *Trip {
	for i := range b.trips {
		if b.trips[i].Id == id {
			return &b.trips[i]
		}
	}
	return nil
}

func (b *Backend) seats(trip Trip) uint {
	var booked uint
	for _, booking := range b.bookings {
		if booking.Trip == trip.Id && booking.Status == StatusConfirmed {
			booked++
		}
	}
	if booked >= trip.Seats {
		return 0
	}
	return trip.Seats - booked
}

func (b *Backend) describe(booking *Booking) string {
	route, pickup, drop := fmt.Sprint(booking.Trip), fmt.Sprint(booking.Pickup), fmt.Sprint(booking.Drop)
	if trip := b.trip(booking.Trip); trip != nil {
		route = trip.Route + " departing " + trip.Departure
		if i := trip.stopIndex(booking.Pickup); i >= 0 {
			pickup = trip.Stops[i].Name
		}
		if i := trip.stopIndex(booking.Drop); i >= 0 {
			drop = trip.Stops[i].Name
		}
	}
	return fmt.Sprintf("Booking %d (reference %s): %s, from %s to %s, amount %.2f, status %s, booked %s.",
		booking.Id, booking.Reference, route, pickup, drop, booking.Amount, booking.Status, booking.Created.Format(time.DateTime))
}

func (t Trip) matches(words []string) bool {
	if len(words) == 0 {
		return true
	}
	names := []string{strings.ToLower(t.Route)}
	for _, stop := range t.Stops {
		names = append(names, strings.ToLower(stop.Name))
	}
	for _, word := range words {
		if word == "to" || word == "from" {
			continue
		}
		if !slices.ContainsFunc(names, func(name string) bool { return strings.Contains(name, word) }) {
			return false
		}
	}
	return true
}

func (t Trip) stopIndex(id uint64) int {
	return slices.IndexFunc(t.Stops, func(stop Stop) bool { return stop.Id == id })
}
