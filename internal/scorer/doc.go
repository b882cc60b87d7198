// Package scorer is the HTTP client for the remote scoring service.
//
// The service exposes a single operation, POST <base>/analyze/, which takes
// a strategy name and the full task list and returns the tasks ranked, each
// with a composite score, a priority label, and a free-form explanation.
// The client is a thin transport: it never reorders, filters, or rescores
// what the service returns.
//
// Failures are classified for the caller:
//   - [errors.TransportError] when the service cannot be reached at all
//   - [errors.ServiceError] for a non-2xx status (body kept as detail) or a
//     2xx body that cannot be decoded
//
// Requests are instrumented with OpenTelemetry through otelhttp; with no
// global provider installed this costs nothing.
package scorer
