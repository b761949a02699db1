package server

import (
	"net/http"
	"strings"
)

type RouteDoc struct {
	Method  string `json:"method"`
	Pattern string `json:"pattern"`
	Summary string `json:"summary,omitempty"`
}

// RouteRegistry collects every registered route so the API can list
// itself.
type RouteRegistry struct {
	routes []RouteDoc
}

func (rr *RouteRegistry) Add(doc RouteDoc) {
	rr.routes = append(rr.routes, doc)
}

func (rr *RouteRegistry) List() []RouteDoc {
	out := make([]RouteDoc, len(rr.routes))
	copy(out, rr.routes)
	return out
}

// Handle registers a handler and records it in the registry.
// methodAndPattern is a Go 1.22 mux pattern, e.g. "GET /api/tasks".
func Handle(mux *http.ServeMux, rr *RouteRegistry, methodAndPattern, summary string, h http.HandlerFunc) {
	parts := strings.SplitN(methodAndPattern, " ", 2)
	method, pattern := parts[0], ""
	if len(parts) == 2 {
		pattern = parts[1]
	}
	rr.Add(RouteDoc{Method: method, Pattern: pattern, Summary: summary})
	mux.HandleFunc(methodAndPattern, h)
}
