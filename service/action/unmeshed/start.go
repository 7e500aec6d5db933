package unmeshed

import (
	"context"
	"time"

	"github.com/unmeshed/unmeshed-mcp-server/internal/clock"
	"github.com/unmeshed/unmeshed-mcp-server/model/process"
	"github.com/unmeshed/unmeshed-mcp-server/model/types"
)

// StartInput represents process start tool input
type StartInput struct {
	Name          string                 `json:"name" required:"true" description:"The unique name of the process to start."`
	Namespace     string                 `json:"namespace,omitempty" description:"The namespace under which the process should run. Defaults to 'default' if empty."`
	Version       int                    `json:"version,omitempty" description:"An optional version number of the process definition to use. Zero or absent runs the latest version."`
	RequestID     string                 `json:"requestId,omitempty" description:"An optional unique identifier for this specific request. Useful for tracking or retrying processes."`
	CorrelationID string                 `json:"correlationId,omitempty" description:"An optional identifier to correlate this process execution with other related processes or events."`
	Input         map[string]interface{} `json:"input,omitempty" description:"A map of input values for the process execution, keyed by parameter name."`
}

// Request builds a process request; a non positive version leaves the version unset
func (i *StartInput) Request() *process.Request {
	var version *int
	if i.Version > 0 {
		v := i.Version
		version = &v
	}
	return process.NewRequest(i.Name,
		process.WithNamespace(i.Namespace),
		process.WithVersion(version),
		process.WithRequestID(i.RequestID),
		process.WithCorrelationID(i.CorrelationID),
		process.WithInput(i.Input))
}

// StartOutput represents process start tool output; failures are reported in Output["error"]
type StartOutput struct {
	process.Data
	TimeTaken time.Duration `json:"timeTaken,omitempty"`
}

func (s *Service) startAsync(ctx context.Context, in, out interface{}) error {
	return s.start(ctx, in, out, s.gateway.StartAsync)
}

func (s *Service) startSync(ctx context.Context, in, out interface{}) error {
	return s.start(ctx, in, out, s.gateway.StartSync)
}

func (s *Service) start(ctx context.Context, in, out interface{}, start func(ctx context.Context, request *process.Request) *process.Data) error {
	input, ok := in.(*StartInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*StartOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	started := clock.Now()
	data := start(ctx, input.Request())
	output.Data = *data
	output.TimeTaken = clock.Since(started)
	return nil
}
