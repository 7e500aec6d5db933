// Package executor bridges agent tool calls with registered tool services. It
// resolves service.method, applies the approval policy, converts the loosely
// typed argument map into the method input type and runs the method inside a
// tracing span.
package executor
