// Package app wires the desurvey HTTP service together: configuration,
// logging, OpenTelemetry, services, the chi router and the HTTP server.
//
// # Initialization Flow
//
//	1. Validate the loaded configuration
//	2. Ensure output and log directories exist
//	3. Initialize OpenTelemetry and the desurvey instruments
//	4. Create the desurvey, planner and health services
//	5. Build the router and its middleware chain
//	6. Create the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(cfg, paths, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run returns after SIGINT, SIGTERM or cancellation of its context. In-flight
// requests are drained within the configured shutdown timeout and telemetry
// is flushed. The package never calls os.Exit.
package app
