// Package app wires the lease revenue analyzer together: configuration,
// logging, OpenTelemetry, the WebSocket hub, the rental batch service, and
// the HTTP server with its middleware chain.
//
// Initialization order matters and is fixed in NewApplication:
//
//	1. Load configuration from environment and optional YAML file
//	2. Initialize the single slog logger
//	3. Resolve and create the on-disk directory layout
//	4. Initialize OpenTelemetry providers
//	5. Start the WebSocket hub and construct services
//	6. Assemble the router and HTTP server
//
// Shutdown runs in reverse: the HTTP server drains first, then the hub
// disconnects its clients, then the telemetry providers flush. The package
// never calls os.Exit; main owns the process exit code.
package app
