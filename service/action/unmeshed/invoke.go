package unmeshed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unmeshed/unmeshed-mcp-server/model/process"
	"github.com/unmeshed/unmeshed-mcp-server/model/types"
)

// InvokeInput represents API mapping invocation tool input
type InvokeInput struct {
	Endpoint      string                 `json:"endpoint" required:"true" description:"The target API endpoint path or identifier to be invoked."`
	RequestID     string                 `json:"requestId,omitempty" description:"An optional unique identifier for this specific request, useful for tracking or retrying calls."`
	CorrelationID string                 `json:"correlationId,omitempty" description:"An optional identifier to correlate this API call with related requests or processes."`
	Payload       map[string]interface{} `json:"payload,omitempty" description:"The request payload as a map of key-value pairs to be sent to the endpoint."`
	CallType      string                 `json:"callType,omitempty" description:"The type of API call: SYNC, ASYNC or STREAM. Left to the engine default when empty."`
}

// Validate checks endpoint and call type
func (i *InvokeInput) Validate() error {
	if i.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if i.CallType == "" {
		return nil
	}
	_, err := process.ParseCallType(i.CallType)
	return err
}

// Invocation builds API mapping invocation
func (i *InvokeInput) Invocation() *process.Invocation {
	var callType process.CallType
	if i.CallType != "" {
		callType, _ = process.ParseCallType(i.CallType)
	}
	return &process.Invocation{
		Endpoint:      i.Endpoint,
		RequestID:     i.RequestID,
		CorrelationID: i.CorrelationID,
		Payload:       i.Payload,
		CallType:      callType,
	}
}

// InvokeOutput represents API mapping response
type InvokeOutput struct {
	Response json.RawMessage `json:"response,omitempty"`
}

func (s *Service) invoke(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*InvokeInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*InvokeOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if err := input.Validate(); err != nil {
		return err
	}
	response, err := s.gateway.InvokeAPIMapping(ctx, input.Invocation())
	if err != nil {
		return err
	}
	output.Response = response
	return nil
}
