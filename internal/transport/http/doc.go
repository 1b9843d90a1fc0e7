// Package http implements the HTTP handlers of the EcoTrack dashboard.
//
// Handlers are thin: they parse and validate the request, call a service
// through a small interface and render the result with go-chi/render.
// Failures go through errors.ErrorHandler so every error response is an
// RFC 7807 problem document carrying the request trace id.
//
// # Routes
//
//	GET  /                                      dashboard page
//	GET  /api/dashboard                         tab list
//	GET  /api/dashboard/tabs/{tab}              panel for the default selection
//	GET  /api/dashboard/tabs/{tab}/charts       charts for ?value=
//	POST /api/dashboard/events                  dispatch a UI event
//	GET  /api/dataset/info                      column kinds and counts
//	GET  /api/dataset/summary                   describe statistics
//	GET  /api/dataset/summary/export            ?format=csv|json|xlsx
//	GET  /api/dataset/charts                    exploratory charts
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//	POST /api/logs                              browser log forwarding
//
// Each handler exposes Routes() returning a chi.Router that the application
// mounts under its prefix.
package http
