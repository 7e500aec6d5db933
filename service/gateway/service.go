package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unmeshed/unmeshed-mcp-server/client"
	"github.com/unmeshed/unmeshed-mcp-server/internal/clock"
	"github.com/unmeshed/unmeshed-mcp-server/model/process"
	"github.com/unmeshed/unmeshed-mcp-server/tracing"
	"go.uber.org/zap"
)

// Operation names used for logging, metrics and spans
const (
	OperationStartAsync = "startAsync"
	OperationStartSync  = "startSync"
	OperationInvoke     = "invokeApiMapping"
	OperationStatus     = "status"
)

// StartFailurePrefix prefixes the message of any engine failure folded into a start result
const StartFailurePrefix = "Failed to start process: "

// Service forwards process requests to the orchestration client.
//
// Start operations follow the safe contract: they never return an error, any
// failure is reported as process data with Output["error"] set. InvokeAPIMapping
// and ProcessData follow the raise contract and return client errors unmodified.
type Service struct {
	client  client.Client
	logger  *zap.Logger
	metrics *Metrics
}

// StartAsync starts a process without waiting for its completion
func (s *Service) StartAsync(ctx context.Context, request *process.Request) *process.Data {
	return s.start(ctx, OperationStartAsync, request, s.client.RunProcessAsync)
}

// StartSync starts a process and waits until the engine reports a terminal state.
// No timeout is added here, the engine step timeout and ctx bound the call.
func (s *Service) StartSync(ctx context.Context, request *process.Request) *process.Data {
	return s.start(ctx, OperationStartSync, request, s.client.RunProcessSync)
}

type runFn func(ctx context.Context, request *process.Request) (*process.Data, error)

func (s *Service) start(ctx context.Context, operation string, request *process.Request, run runFn) *process.Data {
	started := clock.Now()
	if err := request.Validate(); err != nil {
		s.logger.Debug("process request rejected", zap.String("operation", operation), zap.Error(err))
		s.metrics.observe(operation, OutcomeRejected, started)
		return process.NewErrorData(err.Error())
	}
	request = request.Defaulted()

	ctx, span := tracing.StartSpan(ctx, "gateway."+operation, tracing.KindInternal, tracing.RequestAttributes(request)...)
	data, err := run(ctx, request)
	span.End(err)
	if err != nil {
		s.logger.Warn("failed to start process",
			zap.String("operation", operation),
			zap.String("name", request.Name),
			zap.String("namespace", request.Namespace),
			zap.String("correlationId", request.CorrelationID),
			zap.Error(err))
		s.metrics.observe(operation, OutcomeFailed, started)
		return process.NewErrorData(StartFailurePrefix + err.Error())
	}
	s.metrics.observe(operation, OutcomeOK, started)
	if data == nil {
		data = &process.Data{}
	}
	return data
}

// InvokeAPIMapping forwards the invocation verbatim; errors propagate to the caller
func (s *Service) InvokeAPIMapping(ctx context.Context, invocation *process.Invocation) (json.RawMessage, error) {
	started := clock.Now()
	if invocation == nil {
		s.metrics.observe(OperationInvoke, OutcomeRejected, started)
		return nil, fmt.Errorf("invocation was nil")
	}
	ctx, span := tracing.StartSpan(ctx, "gateway."+OperationInvoke, tracing.KindInternal, tracing.InvocationAttributes(invocation)...)
	ret, err := s.client.InvokeAPIMappingPost(ctx, invocation)
	span.End(err)
	if err != nil {
		s.logger.Debug("api mapping invocation failed", zap.String("endpoint", invocation.Endpoint), zap.Error(err))
		s.metrics.observe(OperationInvoke, OutcomeFailed, started)
		return nil, err
	}
	s.metrics.observe(OperationInvoke, OutcomeOK, started)
	return ret, nil
}

// ProcessData loads process data; errors propagate to the caller
func (s *Service) ProcessData(ctx context.Context, processID int64, includeSteps bool) (*process.Data, error) {
	started := clock.Now()
	ctx, span := tracing.StartSpan(ctx, "gateway."+OperationStatus, tracing.KindInternal, tracing.ProcessID.Int64(processID))
	ret, err := s.client.ProcessData(ctx, processID, includeSteps)
	span.End(err)
	if err != nil {
		s.metrics.observe(OperationStatus, OutcomeFailed, started)
		return nil, err
	}
	s.metrics.observe(OperationStatus, OutcomeOK, started)
	return ret, nil
}

// New creates a gateway service
func New(c client.Client, opts ...Option) *Service {
	ret := &Service{client: c, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
