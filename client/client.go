// Package client defines the orchestration engine collaborator consumed by the
// process gateway. Implementations own the wire protocol; see client/rest.
package client

import (
	"context"
	"encoding/json"

	"github.com/unmeshed/unmeshed-mcp-server/model/process"
)

// Client represents an orchestration engine client
type Client interface {
	// RunProcessAsync returns as soon as the engine accepts the request
	RunProcessAsync(ctx context.Context, request *process.Request) (*process.Data, error)
	// RunProcessSync blocks until the process reaches a terminal state or the engine step timeout elapses
	RunProcessSync(ctx context.Context, request *process.Request) (*process.Data, error)
	// InvokeAPIMappingPost posts payload to an engine defined API mapping
	InvokeAPIMappingPost(ctx context.Context, invocation *process.Invocation) (json.RawMessage, error)
	// ProcessData loads process data by engine assigned ID
	ProcessData(ctx context.Context, processID int64, includeSteps bool) (*process.Data, error)
	// Close releases connections held by the client
	Close() error
}
