package httphandler

import (
	"errors"
	"net/http"

	// Package
	agent "github.com/mutablelogic/go-travel-agent"
	orchestrator "github.com/mutablelogic/go-travel-agent/pkg/orchestrator"
	server "github.com/mutablelogic/go-server"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Router interface {
	RegisterFunc(path string, handler http.HandlerFunc, middleware bool, spec *openapi.PathItem) error
}

func RegisterHandlers(o *orchestrator.Orchestrator, router server.HTTPRouter, middleware bool) error {
	var result error

	// Convenience function to register a handler and accumulate any errors
	register := func(path string, handler http.HandlerFunc, spec *openapi.PathItem) {
		result = errors.Join(result, router.(Router).RegisterFunc(path, handler, middleware, spec))
	}

	// Register handlers
	register(ChatHandler(o))
	register(ToolListHandler(o))
	register(ToolGetHandler(o))

	// Return any errors
	return result
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// httpErr converts an agent.Err to an httpresponse.Err, preserving the
// original error message. Unknown error codes map to 500.
func httpErr(err error) error {
	var agentErr agent.Err
	if !errors.As(err, &agentErr) {
		return err
	}
	switch agentErr {
	case agent.ErrNotFound, agent.ErrUnknownTool:
		return httpresponse.ErrNotFound.With(err)
	case agent.ErrBadParameter, agent.ErrInvalidToolCall:
		return httpresponse.ErrBadRequest.With(err)
	case agent.ErrConflict:
		return httpresponse.ErrConflict.With(err)
	case agent.ErrNotImplemented:
		return httpresponse.ErrNotImplemented.With(err)
	default:
		return httpresponse.ErrInternalError.With(err)
	}
}
