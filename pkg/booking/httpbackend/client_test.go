package httpbackend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	// Packages
	httpbackend "github.com/mutablelogic/go-travel-agent/pkg/booking/httpbackend"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// HELPERS

// newTestServer mimics the booking service, with one booking owned by alice
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	booking := httpbackend.Booking{Id: 7, Reference: "AB12", Trip: 101, Route: "Pune to Mumbai", Pickup: "Pune", Drop: "Dadar", Amount: 450, Status: "confirmed"}
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/trips", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Pune" {
			writeJSON(w, []httpbackend.Trip{})
			return
		}
		writeJSON(w, []httpbackend.Trip{{Id: 101, Route: "Pune to Mumbai", Departure: "06:30", Fare: 450, Seats: 12, Stops: []httpbackend.Stop{{Id: 1, Name: "Pune"}, {Id: 4, Name: "Dadar"}}}})
	})
	mux.HandleFunc("GET /api/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" || r.Header.Get("X-User-Id") != "alice" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, booking)
	})
	mux.HandleFunc("DELETE /api/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" || r.Header.Get("X-User-Id") != "alice" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		cancelled := booking
		cancelled.Status = "cancelled"
		writeJSON(w, cancelled)
	})
	mux.HandleFunc("POST /api/bookings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TripId       uint64  `json:"tripId"`
			PickupStopId uint64  `json:"pickupStopId"`
			DropStopId   uint64  `json:"dropStopId"`
			Amount       float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TripId != 101 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		created := booking
		created.Id = 8
		created.Amount = req.Amount
		writeJSON(w, created)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T) *httpbackend.Client {
	t.Helper()
	server := newTestServer(t)
	c, err := httpbackend.New(server.URL + "/api")
	require.NoError(t, err)
	return c
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_httpbackend_001(t *testing.T) {
	// An endpoint is required
	_, err := httpbackend.New("")
	assert.Error(t, err)
}

func Test_httpbackend_002(t *testing.T) {
	// Search results are formatted as text
	assert := assert.New(t)
	c := newClient(t)

	text, err := c.SearchTrips(context.Background(), "Pune")
	assert.NoError(err)
	assert.Contains(text, "Trip 101: Pune to Mumbai, departs 06:30, fare 450.00, 12 seats available")
	assert.Contains(text, "Stop 4: Dadar")

	text, err = c.SearchTrips(context.Background(), "Goa")
	assert.NoError(err)
	assert.Equal(`No trips found matching "Goa".`, text)
}

func Test_httpbackend_003(t *testing.T) {
	// Booking requests carry the caller
	assert := assert.New(t)
	c := newClient(t)
	ctx := context.Background()

	text, err := c.BookingDetails(ctx, "alice", 7)
	assert.NoError(err)
	assert.Equal("Booking 7 (reference AB12): Pune to Mumbai, from Pune to Dadar, amount 450.00, status confirmed.", text)

	_, err = c.BookingDetails(ctx, "bob", 7)
	assert.Error(err)

	text, err = c.CancelBooking(ctx, "alice", 7)
	assert.NoError(err)
	assert.Contains(text, "status cancelled")
}

func Test_httpbackend_004(t *testing.T) {
	// Book ticket posts the request
	assert := assert.New(t)
	c := newClient(t)

	text, err := c.BookTicket(context.Background(), "alice", 101, 1, 4, 460)
	assert.NoError(err)
	assert.Contains(text, "Booked. Booking 8")
	assert.Contains(text, "amount 460.00")

	_, err = c.BookTicket(context.Background(), "alice", 999, 1, 4, 460)
	assert.Error(err)
}
