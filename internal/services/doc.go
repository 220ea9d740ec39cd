// Package services implements the application layer between the CLI and
// HTTP handlers on one side and the desurvey engine, planner, loaders and
// exporters on the other.
//
// Services take their collaborators through constructors and add the
// cross-cutting concerns around each operation: structured logging with
// trace and run ids, an OpenTelemetry span per run, and run metrics.
//
// # Available Services
//
//	- DesurveyService: loads input tables, runs the engine, exports results
//	- PlannerService: projects planned holes
//	- HealthService: liveness, readiness and version information
package services
