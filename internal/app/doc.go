// Package app provides application initialization and lifecycle management
// for the EcoTrack dashboard server.
//
// # Initialization Flow
//
//	1. Resolve data and log paths from the configuration
//	2. Initialize OpenTelemetry providers and the pipeline instruments
//	3. Load the cleaned dataset into an immutable table
//	4. Create the dashboard, dataset and health services over that table
//	5. Build the chi router and the HTTP server
//
// # Routing
//
// Every request passes RequestID, RealIP, OTel, StructuredLogger, Recoverer,
// secure headers, CORS and the rate limiter. /ws and /metrics are mounted
// before the group that adds the request timeout and gzip compression; the
// WebSocket upgrade needs to hijack the raw connection.
//
// # Graceful Shutdown
//
// Run stops on SIGINT or SIGTERM. In-flight requests get the configured
// shutdown timeout, WebSocket clients receive a close frame and telemetry
// providers are flushed.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The app does not
// call os.Exit() directly, allowing the main function to control the exit
// process.
package app
