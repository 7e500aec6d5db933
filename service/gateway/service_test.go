package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mock "github.com/unmeshed/unmeshed-mcp-server/internal/testutil"
	"github.com/unmeshed/unmeshed-mcp-server/model/process"
	"go.uber.org/zap/zaptest"
)

type startFn func(s *Service, ctx context.Context, request *process.Request) *process.Data

var startVariants = []struct {
	description string
	start       startFn
	method      string
}{
	{description: "async", start: (*Service).StartAsync, method: "RunProcessAsync"},
	{description: "sync", start: (*Service).StartSync, method: "RunProcessSync"},
}

func TestService_StartNameRequired(t *testing.T) {
	for _, variant := range startVariants {
		for _, request := range []*process.Request{nil, {}, {Namespace: "finance"}} {
			client := mock.NewMockClient()
			srv := New(client)
			data := variant.start(srv, context.Background(), request)
			assert.EqualValues(t, map[string]interface{}{"error": "Process name is required"}, data.Output, variant.description)
			assert.Empty(t, client.Calls(), variant.description)
		}
	}
}

func TestService_StartNamespace(t *testing.T) {
	testCases := []struct {
		description string
		namespace   string
		expect      string
	}{
		{description: "unset namespace", namespace: "", expect: process.DefaultNamespace},
		{description: "explicit namespace", namespace: "finance", expect: "finance"},
	}
	for _, variant := range startVariants {
		for _, testCase := range testCases {
			client := mock.NewMockClient()
			srv := New(client)
			request := &process.Request{Name: "billing", Namespace: testCase.namespace}
			_ = variant.start(srv, context.Background(), request)

			calls := client.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, variant.method, calls[0].Method)
			assert.Equal(t, testCase.expect, calls[0].Request.Namespace, variant.description+" "+testCase.description)
			assert.Equal(t, testCase.namespace, request.Namespace, "caller request must not be mutated")
		}
	}
}

func TestService_StartFailure(t *testing.T) {
	for _, variant := range startVariants {
		client := mock.NewMockClient()
		client.AsyncErr = errors.New("connection refused")
		client.SyncErr = errors.New("connection refused")
		srv := New(client, WithLogger(zaptest.NewLogger(t)))

		data := variant.start(srv, context.Background(), process.NewRequest("billing"))
		require.NotNil(t, data)
		assert.Equal(t, "Failed to start process: connection refused", data.Output["error"], variant.description)
		assert.Contains(t, data.Error(), "connection refused")
	}
}

func TestService_StartSuccessUnmodified(t *testing.T) {
	expect := &process.Data{ProcessID: 123, Status: process.StatusRunning}
	client := mock.NewMockClient()
	client.AsyncData = expect
	srv := New(client)

	request := &process.Request{Name: "onboard-user", Input: map[string]interface{}{"userId": "u1"}}
	actual := srv.StartAsync(context.Background(), request)

	assert.Same(t, expect, actual)
	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "default", calls[0].Request.Namespace)
	assert.Equal(t, "u1", calls[0].Request.Input["userId"])
}

func TestService_InvokeAPIMapping(t *testing.T) {
	client := mock.NewMockClient()
	client.Response = json.RawMessage(`{"ok":true}`)
	srv := New(client)

	invocation := &process.Invocation{Endpoint: "orders", CallType: process.CallTypeAsync}
	resp, err := srv.InvokeAPIMapping(context.Background(), invocation)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp))
	require.Len(t, client.Calls(), 1)
	assert.Same(t, invocation, client.Calls()[0].Invocation)
}

func TestService_InvokeAPIMappingPropagatesError(t *testing.T) {
	cause := errors.New("gateway timeout")
	client := mock.NewMockClient()
	client.InvokeErr = cause
	srv := New(client)

	resp, err := srv.InvokeAPIMapping(context.Background(), &process.Invocation{Endpoint: "orders"})
	assert.Nil(t, resp)
	assert.Same(t, cause, err)

	_, err = srv.InvokeAPIMapping(context.Background(), nil)
	assert.Error(t, err)
}

func TestService_ProcessData(t *testing.T) {
	client := mock.NewMockClient()
	client.StatusData = &process.Data{ProcessID: 5, Status: process.StatusCompleted}
	srv := New(client)

	data, err := srv.ProcessData(context.Background(), 5, false)
	require.NoError(t, err)
	assert.Equal(t, process.StatusCompleted, data.Status)

	client.StatusErr = errors.New("not found")
	_, err = srv.ProcessData(context.Background(), 5, false)
	assert.EqualError(t, err, "not found")
}

func TestService_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	require.NoError(t, err)
	client := mock.NewMockClient()
	client.SyncErr = errors.New("boom")
	srv := New(client, WithMetrics(metrics))

	_ = srv.StartAsync(context.Background(), process.NewRequest("a"))
	_ = srv.StartAsync(context.Background(), process.NewRequest(""))
	_ = srv.StartSync(context.Background(), process.NewRequest("a"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(OperationStartAsync, OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(OperationStartAsync, OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(OperationStartSync, OutcomeFailed)))
}

func TestNewMetrics_SharedRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	first, err := NewMetrics(registry)
	require.NoError(t, err)
	second, err := NewMetrics(registry)
	require.NoError(t, err)

	New(mock.NewMockClient(), WithMetrics(first)).StartAsync(context.Background(), process.NewRequest("a"))
	New(mock.NewMockClient(), WithMetrics(second)).StartAsync(context.Background(), process.NewRequest("b"))
	assert.Equal(t, 2.0, testutil.ToFloat64(first.requests.WithLabelValues(OperationStartAsync, OutcomeOK)))

	conflicting := prometheus.NewGauge(prometheus.GaugeOpts{Name: "unmeshed_gateway_requests_total", Help: "other"})
	other := prometheus.NewRegistry()
	require.NoError(t, other.Register(conflicting))
	_, err = NewMetrics(other)
	assert.Error(t, err)

	metrics, err := NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, metrics)
}
