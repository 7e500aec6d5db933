// Package tracing opens OpenTelemetry spans for gateway operations, engine
// HTTP calls and tool executions, and carries the process, endpoint and
// call identifiers as typed attributes. Tracing is opt-in: until Init or
// InitWithExporter installs a Provider spans are no-op.
package tracing
