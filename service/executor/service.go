package executor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/unmeshed/unmeshed-mcp-server/extension"
	"github.com/unmeshed/unmeshed-mcp-server/internal/idgen"
	"github.com/unmeshed/unmeshed-mcp-server/policy"
	"github.com/unmeshed/unmeshed-mcp-server/tracing"
	"github.com/viant/structology/conv"
	"go.uber.org/zap"
)

// Call represents a single agent tool call
type Call struct {
	ID      string                 `json:"id,omitempty"`
	Service string                 `json:"service"`
	Method  string                 `json:"method"`
	Args    map[string]interface{} `json:"args,omitempty"`
}

// Action returns fully qualified action name
func (c *Call) Action() string {
	return c.Service + "." + c.Method
}

// Listener is invoked once a method completes, regardless of error.
type Listener func(call *Call, input, output interface{}, err error)

// LogListener returns a listener logging every call at debug level.
func LogListener(logger *zap.Logger) Listener {
	return func(call *Call, input, output interface{}, err error) {
		if call == nil {
			return
		}
		fields := []zap.Field{
			zap.String("id", call.ID),
			zap.String("action", call.Action()),
			zap.Any("input", input),
		}
		if err != nil {
			logger.Debug("tool call failed", append(fields, zap.Error(err))...)
			return
		}
		logger.Debug("tool call completed", append(fields, zap.Any("output", output))...)
	}
}

// Option is used to customise the executor instance.
type Option func(*Service)

// WithListener overrides the listener invoked after every executed call. Passing nil disables it.
func WithListener(l Listener) Option {
	return func(s *Service) {
		s.listener = l
	}
}

// WithPolicy sets the policy used when the context carries none
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// Service executes tool calls against registered actions
type Service struct {
	actions   *extension.Actions
	converter *conv.Converter
	listener  Listener
	policy    *policy.Policy
}

// Execute executes a tool call and returns the method output
func (s *Service) Execute(ctx context.Context, call *Call) (interface{}, error) {
	if call == nil {
		return nil, fmt.Errorf("call was nil")
	}
	if call.ID == "" {
		call.ID = idgen.New()
	}
	toolService := s.actions.Lookup(call.Service)
	if toolService == nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, call.Service)
	}
	signature := toolService.Methods().Lookup(call.Method)
	if signature == nil {
		return nil, fmt.Errorf("%w: %v.%v", ErrMethodNotFound, call.Service, call.Method)
	}
	method, err := toolService.Method(call.Method)
	if err != nil {
		return nil, fmt.Errorf("failed to find method %v for service %v: %w", call.Method, call.Service, err)
	}

	aPolicy := policy.FromContext(ctx)
	if aPolicy == nil {
		aPolicy = s.policy
	}
	if !aPolicy.Approve(ctx, &policy.Request{CallID: call.ID, Tool: call.Action(), Args: call.Args}) {
		return nil, fmt.Errorf("%w: %v", ErrRejected, call.Action())
	}

	var args interface{}
	if len(call.Args) > 0 {
		args = call.Args
	}
	input, err := s.typedValue(signature.Input, args)
	if err != nil {
		return nil, fmt.Errorf("invalid %v input: %w", call.Action(), err)
	}
	output, err := s.typedValue(signature.Output, nil)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, call.Action(), tracing.KindServer, tracing.ToolCallID.String(call.ID))
	err = method(ctx, input, output)
	span.End(err)

	if s.listener != nil {
		s.listener(call, input, output, err)
	}
	if err != nil {
		return nil, err
	}
	return output, nil
}

// typedValue creates a new instance of aType (pointer) and converts value into it
func (s *Service) typedValue(aType reflect.Type, value interface{}) (interface{}, error) {
	if aType == nil {
		return nil, nil
	}
	if aType.Kind() == reflect.Ptr {
		aType = aType.Elem()
	}
	instance := reflect.New(aType).Interface()
	if value == nil {
		return instance, nil
	}
	if err := s.converter.Convert(value, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

// New creates a new executor service instance.
func New(actions *extension.Actions, opts ...Option) *Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true

	s := &Service{
		actions:   actions,
		converter: conv.NewConverter(options),
		listener:  LogListener(zap.NewNop()),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
