// Package http implements the HTTP handlers of the desurvey service.
// Handlers stay thin: they bind and check the request body, call the
// service layer and render either a JSON document or a CSV stream.
// Every failure goes through errors.ErrorHandler as RFC 7807 problem details.
//
// Routes:
//
//	POST /api/v1/desurvey   desurvey three tables sent as JSON (?format=csv streams CSV)
//	POST /api/v1/plan       project straight planned holes
//	GET  /health            liveness summary
//	GET  /ready             readiness, 503 when the output directory is missing
//	GET  /live              runtime details
//	GET  /version           build information
package http
