package httphandler

import (
	"net/http"

	// Packages
	orchestrator "github.com/mutablelogic/go-travel-agent/pkg/orchestrator"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /tool
func ToolListHandler(o *orchestrator.Orchestrator) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/tool", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), o.Tools(r.Context()))
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "List all tools and the calendar provider status",
			},
		})
}

// Path: /tool/{name}
func ToolGetHandler(o *orchestrator.Orchestrator) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/tool/{name}", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				resp, err := o.Tool(r.Context(), r.PathValue("name"))
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), resp)
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "Get a tool by name",
			},
		})
}
