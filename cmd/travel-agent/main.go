package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	otel "go.opentelemetry.io/otel"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// Configuration file, which replaces the endpoint and calendar flags
	Config string `name:"config" env:"TRAVEL_AGENT_CONFIG" help:"Path to a YAML configuration file" type:"existingfile" optional:""`

	// Endpoints and providers
	OpenAI   `embed:"" prefix:"openai." group:"OPENAI"`
	Mistral  `embed:"" prefix:"mistral." group:"MISTRAL"`
	Calendar `embed:"" prefix:"calendar." group:"CALENDAR"`
	Booking  `embed:"" prefix:"booking." group:"BOOKING"`

	// Context
	ctx      context.Context
	logger   *slog.Logger
	tracer   trace.Tracer
	execName string
}

type OpenAI struct {
	OpenAIKey   string `name:"key" env:"OPENAI_API_KEY" help:"API key for an OpenAI-compatible endpoint"`
	OpenAIURL   string `name:"url" env:"OPENAI_BASE_URL" help:"Base URL of the OpenAI-compatible endpoint"`
	OpenAIModel string `name:"model" env:"OPENAI_MODEL" help:"Model name" default:"gpt-4o-mini"`
}

type Mistral struct {
	MistralKey   string `name:"key" env:"MISTRAL_API_KEY" help:"Mistral API key"`
	MistralModel string `name:"model" env:"MISTRAL_MODEL" help:"Model name" default:"mistral-small-latest"`
}

type Calendar struct {
	CalendarCommand     string `name:"command" env:"CALENDAR_MCP_COMMAND" help:"Command which serves the calendar tools over stdio"`
	CalendarCredentials string `name:"credentials" env:"GOOGLE_OAUTH_CREDENTIALS" help:"Path to the calendar OAuth credentials"`
}

type Booking struct {
	BookingURL string `name:"url" env:"BOOKING_URL" help:"Booking service endpoint, or empty for the sample timetable"`
}

type CLI struct {
	Globals

	// Commands
	Ask     AskCommand     `cmd:"" name:"ask" help:"Send a message and print the reply."`
	Tools   ToolsCommand   `cmd:"" name:"tools" help:"Print the tool manifest."`
	Serve   ServeCommand   `cmd:"" name:"serve" help:"Run the chat server."`
	Version VersionCommand `cmd:"" name:"version" help:"Print version information."`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Travel booking assistant"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx
	cli.Globals.execName = execName()

	// Create a logger
	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	if cli.Debug {
		level = slog.LevelDebug
	}
	cli.Globals.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	cli.Globals.tracer = otel.Tracer(cli.Globals.execName)

	// Run the command
	cmd.FatalIfErrorf(cmd.Run(&cli.Globals))
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}
