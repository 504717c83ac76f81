package agent

import (
	"context"

	// Packages
	opt "github.com/mutablelogic/go-travel-agent/pkg/opt"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Completer is a text-completion model endpoint
type Completer interface {
	// Return the provider name
	Name() string

	// Complete sends the turn to the named model and returns the assistant
	// text. Transport, status and empty-reply failures are marked Retryable.
	Complete(ctx context.Context, model string, turn schema.Turn, opts ...opt.Opt) (string, error)
}

// Connector is the external capability provider
type Connector interface {
	// EnsureConnected establishes the connection at most once per process
	// and returns the settled or in-flight state
	EnsureConnected(ctx context.Context) schema.ConnectionState

	// State returns the current state without connecting
	State() schema.ConnectionState

	// CallTool calls an externally discovered tool and returns its text content
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}

// Dispatcher executes a validated tool call on behalf of a caller
type Dispatcher interface {
	Execute(ctx context.Context, call schema.ToolCall, callerId string) schema.ToolResult
}

// Backend is the travel-booking system behind the built-in tools. Each
// operation returns human-readable text for the model to summarise.
// Bookings are scoped to the caller.
type Backend interface {
	SearchTrips(ctx context.Context, query string) (string, error)
	BookingDetails(ctx context.Context, callerId string, bookingId uint64) (string, error)
	CancelBooking(ctx context.Context, callerId string, bookingId uint64) (string, error)
	BookTicket(ctx context.Context, callerId string, tripId, pickupStopId, dropStopId uint64, amount float64) (string, error)
}
