package opt

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// A generic option type, which can set options on a completion request
type Opt func(*opts) error

// set of options
type opts struct {
	url.Values
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	MaxTokensKey     = "max-tokens"
	TemperatureKey   = "temperature"
	TopPKey          = "top-p"
	StopSequencesKey = "stop"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Apply returns a structure of applied options
func Apply(o ...Opt) (*opts, error) {
	opts := &opts{Values: make(url.Values)}
	for _, opt := range o {
		if opt == nil {
			continue
		}
		if err := opt(opts); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetString returns the trimmed value for key, or empty string if not set
func (o *opts) GetString(key string) string {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// GetStringArray returns all values for key, each trimmed
func (o *opts) GetStringArray(key string) []string {
	values, ok := o.Values[key]
	if !ok {
		return nil
	}
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = strings.TrimSpace(v)
	}
	return result
}

// GetFloat64 returns the float64 value for key, or 0 if not set or invalid
func (o *opts) GetFloat64(key string) float64 {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64); err == nil {
			return v
		}
	}
	return 0
}

// GetUint returns the uint value for key, or 0 if not set or invalid
func (o *opts) GetUint(key string) uint {
	if values, ok := o.Values[key]; ok && len(values) > 0 {
		if v, err := strconv.ParseUint(strings.TrimSpace(values[0]), 10, 64); err == nil {
			return uint(v)
		}
	}
	return 0
}

// Has returns true if the key exists
func (o *opts) Has(key string) bool {
	_, ok := o.Values[key]
	return ok
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// Error returns an option that always returns an error
func Error(err error) Opt {
	return func(o *opts) error {
		return err
	}
}

// WithOpts combines multiple options into a single option
func WithOpts(options ...Opt) Opt {
	return func(o *opts) error {
		for _, opt := range options {
			if err := opt(o); err != nil {
				return err
			}
		}
		return nil
	}
}

// SetString replaces any existing values for key
func SetString(key string, value string) Opt {
	return func(o *opts) error {
		o.Values.Set(key, value)
		return nil
	}
}

// AddString appends values for key
func AddString(key string, value ...string) Opt {
	return func(o *opts) error {
		for _, v := range value {
			o.Values.Add(key, v)
		}
		return nil
	}
}

// SetUint replaces any existing value for key
func SetUint(key string, value uint) Opt {
	return func(o *opts) error {
		o.Values.Set(key, fmt.Sprintf("%d", value))
		return nil
	}
}

// SetFloat64 replaces any existing value for key
func SetFloat64(key string, value float64) Opt {
	return func(o *opts) error {
		o.Values.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
		return nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// COMPLETION OPTIONS

// WithMaxTokens sets the maximum number of tokens to generate (minimum 1)
func WithMaxTokens(value uint) Opt {
	if value < 1 {
		return Error(fmt.Errorf("max tokens must be at least 1"))
	}
	return SetUint(MaxTokensKey, value)
}

// WithTemperature sets the sampling temperature (0.0 to 2.0). Lower values
// favour deterministic output.
func WithTemperature(value float64) Opt {
	if value < 0 || value > 2 {
		return Error(fmt.Errorf("temperature must be between 0.0 and 2.0"))
	}
	return SetFloat64(TemperatureKey, value)
}

// WithTopP sets the nucleus sampling parameter (0.0 to 1.0)
func WithTopP(value float64) Opt {
	if value < 0 || value > 1 {
		return Error(fmt.Errorf("top_p must be between 0.0 and 1.0"))
	}
	return SetFloat64(TopPKey, value)
}

// WithStopSequences sets custom stop sequences
func WithStopSequences(values ...string) Opt {
	if len(values) == 0 {
		return Error(fmt.Errorf("at least one stop sequence is required"))
	}
	return AddString(StopSequencesKey, values...)
}
