package httphandler

import (
	"net/http"
	"strings"

	// Packages
	orchestrator "github.com/mutablelogic/go-travel-agent/pkg/orchestrator"
	schema "github.com/mutablelogic/go-travel-agent/pkg/schema"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /chat
func ChatHandler(o *orchestrator.Orchestrator) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/chat", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				var req schema.ChatRequest
				if err := httprequest.Read(r, &req); err != nil {
					_ = httpresponse.Error(w, err)
					return
				}
				req.Message = strings.TrimSpace(req.Message)
				req.User = strings.TrimSpace(req.User)
				if req.Message == "" {
					_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With("message is required"))
					return
				} else if req.User == "" {
					_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With("user is required"))
					return
				}

				// The reply is always text, even when every endpoint fails
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.ChatResponse{
					Reply: o.GenerateResponse(r.Context(), req.Message, req.User),
				})
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Post: &openapi.Operation{
				Description: "Send a message from a caller and get a reply",
			},
		})
}
