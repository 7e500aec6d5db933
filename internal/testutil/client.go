package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/unmeshed/unmeshed-mcp-server/client"
	"github.com/unmeshed/unmeshed-mcp-server/model/process"
)

// Call records a single client invocation
type Call struct {
	Method     string
	Request    *process.Request
	Invocation *process.Invocation
	ProcessID  int64
}

// MockClient is a recording test implementation of client.Client
type MockClient struct {
	AsyncData  *process.Data
	SyncData   *process.Data
	StatusData *process.Data
	Response   json.RawMessage
	AsyncErr   error
	SyncErr    error
	InvokeErr  error
	StatusErr  error
	Closed     bool
	mux        sync.Mutex
	calls      []Call
}

var _ client.Client = (*MockClient)(nil)

// NewMockClient creates a new mock client
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Calls returns recorded calls
func (m *MockClient) Calls() []Call {
	m.mux.Lock()
	defer m.mux.Unlock()
	return append([]Call(nil), m.calls...)
}

func (m *MockClient) record(call Call) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.calls = append(m.calls, call)
}

// RunProcessAsync mock implementation
func (m *MockClient) RunProcessAsync(ctx context.Context, request *process.Request) (*process.Data, error) {
	m.record(Call{Method: "RunProcessAsync", Request: request})
	if m.AsyncErr != nil {
		return nil, m.AsyncErr
	}
	return m.AsyncData, nil
}

// RunProcessSync mock implementation
func (m *MockClient) RunProcessSync(ctx context.Context, request *process.Request) (*process.Data, error) {
	m.record(Call{Method: "RunProcessSync", Request: request})
	if m.SyncErr != nil {
		return nil, m.SyncErr
	}
	return m.SyncData, nil
}

// InvokeAPIMappingPost mock implementation
func (m *MockClient) InvokeAPIMappingPost(ctx context.Context, invocation *process.Invocation) (json.RawMessage, error) {
	m.record(Call{Method: "InvokeAPIMappingPost", Invocation: invocation})
	if m.InvokeErr != nil {
		return nil, m.InvokeErr
	}
	return m.Response, nil
}

// ProcessData mock implementation
func (m *MockClient) ProcessData(ctx context.Context, processID int64, includeSteps bool) (*process.Data, error) {
	m.record(Call{Method: "ProcessData", ProcessID: processID})
	if m.StatusErr != nil {
		return nil, m.StatusErr
	}
	return m.StatusData, nil
}

// Close mock implementation
func (m *MockClient) Close() error {
	m.Closed = true
	return nil
}
