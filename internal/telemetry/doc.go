// Package telemetry installs the global OpenTelemetry meter, tracer and
// logger providers. Spans from scoring service requests, analysis run
// metrics and mirrored log records are exported as JSON to a local file when
// telemetry is enabled.
package telemetry
