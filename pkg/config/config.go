// Package config reads the YAML configuration of model endpoints, the
// calendar provider command and timeouts.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	// Packages
	agent "github.com/mutablelogic/go-travel-agent"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	yaml "gopkg.in/yaml.v3"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Config struct {
	Endpoints          []Endpoint `yaml:"endpoints"`
	Provider           Provider   `yaml:"provider"`
	Timeouts           Timeouts   `yaml:"timeouts"`
	MaxTokens          uint       `yaml:"max_tokens"`
	Temperature        *float64   `yaml:"temperature"`
	SummaryTemperature *float64   `yaml:"summary_temperature"`
	BookingURL         string     `yaml:"booking_url"`
}

// Endpoint is a model endpoint. The API key and URL may refer to
// environment variables as $NAME or ${NAME}.
type Endpoint struct {
	schema.Endpoint `yaml:",inline"`
	URL             string `yaml:"url,omitempty"`
	APIKey          string `yaml:"api_key,omitempty"`
}

// Provider is the command which serves the calendar tools. An empty
// command disables the calendar tools.
type Provider struct {
	Command string            `yaml:"command"`
	Env     map[string]string `yaml:"env"`
}

type Timeouts struct {
	Attempt   time.Duration `yaml:"attempt"`
	Handshake time.Duration `yaml:"handshake"`
	Discovery time.Duration `yaml:"discovery"`
	Tool      time.Duration `yaml:"tool"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ProviderOpenAI  = "openai"
	ProviderMistral = "mistral"
)

const (
	defaultAttempt            = 30 * time.Second
	defaultHandshake          = 45 * time.Second
	defaultDiscovery          = 15 * time.Second
	defaultTool               = 30 * time.Second
	defaultMaxTokens          = 512
	defaultTemperature        = 0.1
	defaultSummaryTemperature = 0.3
)

var (
	providers = []string{ProviderOpenAI, ProviderMistral}
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New returns a validated configuration for the endpoints, with every
// other value defaulted
func New(endpoints ...Endpoint) (*Config, error) {
	config := &Config{Endpoints: endpoints}
	config.defaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load reads, defaults and validates the configuration file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Parse decodes, defaults and validates a YAML configuration
func Parse(data []byte) (*Config, error) {
	var config Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, agent.ErrBadParameter.With(err)
	}
	config.defaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Validate checks the endpoints, sampling parameters and timeouts
func (c *Config) Validate() error {
	var result error
	if len(c.Endpoints) == 0 {
		result = errors.Join(result, agent.ErrBadParameter.With("at least one endpoint is required"))
	}
	names := make(map[string]bool, len(c.Endpoints))
	for i, endpoint := range c.Endpoints {
		name := endpoint.Identifier()
		switch {
		case name == "":
			result = errors.Join(result, agent.ErrBadParameter.Withf("endpoint %d: name is required", i))
		case names[name]:
			result = errors.Join(result, agent.ErrBadParameter.Withf("duplicate endpoint %q", name))
		}
		names[name] = true
		if !slices.Contains(providers, endpoint.Provider) {
			result = errors.Join(result, agent.ErrBadParameter.Withf("endpoint %q: unknown provider %q", name, endpoint.Provider))
		}
		if endpoint.Model == "" {
			result = errors.Join(result, agent.ErrBadParameter.Withf("endpoint %q: model is required", name))
		}
	}
	if t := c.Temperature; t != nil && (*t < 0 || *t > 2) {
		result = errors.Join(result, agent.ErrBadParameter.With("temperature must be between 0.0 and 2.0"))
	}
	if t := c.SummaryTemperature; t != nil && (*t < 0 || *t > 2) {
		result = errors.Join(result, agent.ErrBadParameter.With("summary_temperature must be between 0.0 and 2.0"))
	}
	for name, d := range map[string]time.Duration{
		"attempt":   c.Timeouts.Attempt,
		"handshake": c.Timeouts.Handshake,
		"discovery": c.Timeouts.Discovery,
		"tool":      c.Timeouts.Tool,
	} {
		if d < 0 {
			result = errors.Join(result, agent.ErrBadParameter.Withf("timeouts.%s must not be negative", name))
		}
	}
	return result
}

// Key returns the API key of the endpoint, with environment variables
// expanded
func (e Endpoint) Key() string {
	return os.ExpandEnv(e.APIKey)
}

// BaseURL returns the URL of the endpoint, with environment variables
// expanded
func (e Endpoint) BaseURL() string {
	return os.ExpandEnv(e.URL)
}

// Args returns the provider command split into the executable and its
// arguments, or nil when no command is set
func (p Provider) Args() []string {
	return strings.Fields(p.Command)
}

// Environ returns the provider environment as sorted KEY=value pairs, with
// environment variables in the values expanded
func (p Provider) Environ() []string {
	result := make([]string, 0, len(p.Env))
	for key, value := range p.Env {
		result = append(result, key+"="+os.ExpandEnv(value))
	}
	slices.Sort(result)
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c *Config) defaults() {
	if c.Timeouts.Attempt == 0 {
		c.Timeouts.Attempt = defaultAttempt
	}
	if c.Timeouts.Handshake == 0 {
		c.Timeouts.Handshake = defaultHandshake
	}
	if c.Timeouts.Discovery == 0 {
		c.Timeouts.Discovery = defaultDiscovery
	}
	if c.Timeouts.Tool == 0 {
		c.Timeouts.Tool = defaultTool
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Temperature == nil {
		c.Temperature = ptr(defaultTemperature)
	}
	if c.SummaryTemperature == nil {
		c.SummaryTemperature = ptr(defaultSummaryTemperature)
	}
	for i := range c.Endpoints {
		c.Endpoints[i].Provider = strings.ToLower(strings.TrimSpace(c.Endpoints[i].Provider))
	}
}

func ptr[T any](v T) *T {
	return &v
}
