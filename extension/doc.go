// Package extension provides the run-time registry of tool services. The
// unmeshed service is registered by default; applications can add their own
// types.Service implementations through the root package options.
package extension
