package unmeshed

import (
	"reflect"
	"strings"

	"github.com/unmeshed/unmeshed-mcp-server/model/types"
	"github.com/unmeshed/unmeshed-mcp-server/service/gateway"
)

// Name is the service name under which the tools are registered
const Name = "unmeshed"

// Service exposes Unmeshed process operations as agent tools
type Service struct {
	gateway *gateway.Service
}

// New creates a new tool service
func New(gateway *gateway.Service) *Service {
	return &Service{gateway: gateway}
}

// Name returns the service name
func (s *Service) Name() string {
	return Name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name: gateway.OperationStartAsync,
			Description: "Starts a new Unmeshed process asynchronously using its unique name, without waiting for completion. " +
				"Use it to trigger a process in the background and continue with other tasks. " +
				"Supports namespace, version, request ID, correlation ID and input parameters. " +
				"Returns process execution details or an error message if the process could not be started.",
			Input:  reflect.TypeOf(&StartInput{}),
			Output: reflect.TypeOf(&StartOutput{}),
		},
		{
			Name: gateway.OperationStartSync,
			Description: "Starts a new Unmeshed process synchronously using its unique name, waiting for the process to complete before returning. " +
				"Use it when the final output of a process is needed before proceeding. " +
				"Supports namespace, version, request ID, correlation ID and input parameters. " +
				"Returns the final process execution details or an error message if the process could not be started or completed.",
			Input:  reflect.TypeOf(&StartInput{}),
			Output: reflect.TypeOf(&StartOutput{}),
		},
		{
			Name: gateway.OperationInvoke,
			Description: "Invokes an API mapping through the Unmeshed orchestration engine using a POST request. " +
				"Sends a payload to the specified endpoint, optionally with a request ID and correlation ID for tracking. " +
				"The API call type (SYNC, ASYNC, STREAM) controls execution behavior.",
			Input:  reflect.TypeOf(&InvokeInput{}),
			Output: reflect.TypeOf(&InvokeOutput{}),
		},
		{
			Name:        gateway.OperationStatus,
			Description: "Retrieves the current status and output of an Unmeshed process by its process ID, optionally including step records.",
			Input:       reflect.TypeOf(&StatusInput{}),
			Output:      reflect.TypeOf(&StatusOutput{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "startasync":
		return s.startAsync, nil
	case "startsync":
		return s.startSync, nil
	case "invokeapimapping":
		return s.invoke, nil
	case "status":
		return s.status, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}
