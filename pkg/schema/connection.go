package schema

import (
	"encoding/json"
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ConnectionStatus is the lifecycle of the external capability connection
type ConnectionStatus int

// ConnectionState is a snapshot of the external capability connection.
// Tools holds the discovered tools when Connected, or the fallback tools
// when Degraded.
type ConnectionState struct {
	Status ConnectionStatus `json:"status"`
	Tools  []ToolDefinition `json:"tools,omitempty"`
	Err    error            `json:"-"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	Unconnected ConnectionStatus = iota
	Connecting
	Connected
	Degraded
	Unavailable
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Settled returns true once the connection can no longer change
func (s ConnectionStatus) Settled() bool {
	return s == Connected || s == Degraded || s == Unavailable
}

func (s ConnectionStatus) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Degraded:
		return "degraded"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

func (s ConnectionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ConnectionStatus) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	for status := Unconnected; status <= Unavailable; status++ {
		if status.String() == value {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown connection status %q", value)
}
