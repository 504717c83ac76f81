/*
httpbackend implements a booking backend over the travel-booking REST API.

	GET    /trips?q=<query>
	GET    /bookings/{id}
	DELETE /bookings/{id}
	POST   /bookings

The caller is identified to the service with the X-User-Id header.
*/
package httpbackend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	agent "github.com/mutablelogic/go-travel-agent"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
}

type Trip struct {
	Id        uint64  `json:"id"`
	Route     string  `json:"route"`
	Departure string  `json:"departure,omitempty"`
	Fare      float64 `json:"fare"`
	Seats     uint    `json:"seats"`
	Stops     []Stop  `json:"stops,omitempty"`
}

type Stop struct {
	Id   uint64 `json:"id"`
	Name string `json:"name"`
}

type Booking struct {
	Id        uint64  `json:"id"`
	Reference string  `json:"reference,omitempty"`
	Trip      uint64  `json:"tripId"`
	Route     string  `json:"route,omitempty"`
	Pickup    string  `json:"pickup,omitempty"`
	Drop      string  `json:"drop,omitempty"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
}

type reqBookTicket struct {
	TripId       uint64  `json:"tripId"`
	PickupStopId uint64  `json:"pickupStopId"`
	DropStopId   uint64  `json:"dropStopId"`
	Amount       float64 `json:"amount"`
}

var _ agent.Backend = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	headerUserId = "X-User-Id"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client for the booking service at url, for example
// "http://localhost:8080/api"
func New(url string, opts ...client.ClientOpt) (*Client, error) {
	if url == "" {
		return nil, agent.ErrBadParameter.With("booking service url is required")
	}
	c := new(Client)
	if client, err := client.New(append(opts, client.OptEndpoint(url))...); err != nil {
		return nil, err
	} else {
		c.Client = client
	}
	return c, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// SearchTrips returns the trips matching a free-text query
func (c *Client) SearchTrips(ctx context.Context, query string) (string, error) {
	var response []Trip
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath("trips"), client.OptQuery(url.Values{"q": {query}})); err != nil {
		return "", err
	}
	if len(response) == 0 {
		return fmt.Sprintf("No trips found matching %q.", query), nil
	}

	var sb strings.Builder
	for _, trip := range response {
		sb.WriteString(trip.String())
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// BookingDetails returns a booking owned by the caller
func (c *Client) BookingDetails(ctx context.Context, callerId string, bookingId uint64) (string, error) {
	var response Booking
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, client.OptPath("bookings", strconv.FormatUint(bookingId, 10)), client.OptReqHeader(headerUserId, callerId)); err != nil {
		return "", err
	}
	return response.String(), nil
}

// CancelBooking cancels a booking owned by the caller
func (c *Client) CancelBooking(ctx context.Context, callerId string, bookingId uint64) (string, error) {
	var response Booking
	if err := c.DoWithContext(ctx, client.MethodDelete, &response, client.OptPath("bookings", strconv.FormatUint(bookingId, 10)), client.OptReqHeader(headerUserId, callerId)); err != nil {
		return "", err
	}
	return "Cancelled. " + response.String(), nil
}

// BookTicket books a seat between two stops of a trip
func (c *Client) BookTicket(ctx context.Context, callerId string, tripId, pickupStopId, dropStopId uint64, amount float64) (string, error) {
	req, err := client.NewJSONRequest(reqBookTicket{
		TripId:       tripId,
		PickupStopId: pickupStopId,
		DropStopId:   dropStopId,
		Amount:       amount,
	})
	if err != nil {
		return "", err
	}

	var response Booking
	if err := c.DoWithContext(ctx, req, &response, client.OptPath("bookings"), client.OptReqHeader(headerUserId, callerId)); err != nil {
		return "", err
	}
	return "Booked. " + response.String(), nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (t Trip) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Trip %d: %s", t.Id, t.Route)
	if t.Departure != "" {
		fmt.Fprintf(&sb, ", departs %s", t.Departure)
	}
	fmt.Fprintf(&sb, ", fare %.2f, %d seats available", t.Fare, t.Seats)
	for _, stop := range t.Stops {
		fmt.Fprintf(&sb, "\n  Stop %d: %s", stop.Id, stop.Name)
	}
	return sb.String()
}

func (b Booking) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking %d", b.Id)
	if b.Reference != "" {
		fmt.Fprintf(&sb, " (reference %s)", b.Reference)
	}
	if b.Route != "" {
		fmt.Fprintf(&sb, ": %s", b.Route)
	} else {
		fmt.Fprintf(&sb, ": trip %d", b.Trip)
	}
	if b.Pickup != "" && b.Drop != "" {
		fmt.Fprintf(&sb, ", from %s to %s", b.Pickup, b.Drop)
	}
	fmt.Fprintf(&sb, ", amount %.2f, status %s.", b.Amount, b.Status)
	return sb.String()
}
