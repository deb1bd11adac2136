// Package api serves the list-state inspector over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness
//	GET  /metrics                 Prometheus metrics (when configured)
//	GET  /liststate/{resource}    parse ?location= into a list state
//	POST /liststate/{resource}    format a JSON list state into a location
//	GET  /ws                      navigator websocket for a browser tab
//
// The websocket route keeps the tab's URL canonical: every location the tab
// reports is read as the list state of the matching resource and, when the
// canonical form differs (a legacy selectedRelease link, a default written
// out, keys in another order), rewritten in place with a replace navigation.
package api
