package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unmeshed/unmeshed-mcp-server/model/process"
)

func TestAuthorizationToken(t *testing.T) {
	// sha256("secret")
	assert.Equal(t,
		"client.sdk.cid.2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b",
		AuthorizationToken("cid", "secret"))
}

func TestClient_RunProcess(t *testing.T) {
	testCases := []struct {
		description string
		path        string
		run         func(c *Client, ctx context.Context, r *process.Request) (*process.Data, error)
	}{
		{
			description: "async",
			path:        "/api/process/runAsync",
			run:         (*Client).RunProcessAsync,
		},
		{
			description: "sync",
			path:        "/api/process/runSync",
			run:         (*Client).RunProcessSync,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, testCase.path, r.URL.Path)
				assert.Equal(t, "cid", r.URL.Query().Get("clientId"))
				assert.Equal(t, "Bearer "+AuthorizationToken("cid", "token"), r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var req process.Request
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "onboard-user", req.Name)
				assert.Equal(t, "default", req.Namespace)
				assert.Equal(t, "u1", req.Input["userId"])

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"processId":123,"name":"onboard-user","namespace":"default","status":"RUNNING","output":{"ok":true}}`))
			}))
			defer server.Close()

			c := New(server.URL+"/", "cid", "token")
			defer func() { _ = c.Close() }()

			data, err := testCase.run(c, context.Background(), process.NewRequest("onboard-user",
				process.WithInput(map[string]interface{}{"userId": "u1"})))
			require.NoError(t, err)
			assert.EqualValues(t, 123, data.ProcessID)
			assert.Equal(t, process.StatusRunning, data.Status)
			assert.Equal(t, true, data.Output["ok"])
		})
	}
}

func TestClient_RunProcessAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessage":"process definition not found"}`))
	}))
	defer server.Close()

	c := New(server.URL, "cid", "token")
	_, err := c.RunProcessAsync(context.Background(), process.NewRequest("missing"))
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "process definition not found")
}

func TestClient_InvokeAPIMappingPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/call/orders/create", r.URL.Path)
		assert.Equal(t, "r-1", r.URL.Query().Get("id"))
		assert.Equal(t, "c-1", r.URL.Query().Get("correlationId"))
		assert.Equal(t, "SYNC", r.URL.Query().Get("apiCallType"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "sku-1", payload["sku"])

		_, _ = w.Write([]byte(`{"orderId":"o-9"}`))
	}))
	defer server.Close()

	c := New(server.URL, "cid", "token")
	resp, err := c.InvokeAPIMappingPost(context.Background(), &process.Invocation{
		Endpoint:      "/orders/create",
		RequestID:     "r-1",
		CorrelationID: "c-1",
		Payload:       map[string]interface{}{"sku": "sku-1"},
		CallType:      process.CallTypeSync,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"orderId":"o-9"}`, string(resp))
}

func TestClient_InvokeAPIMappingPostEscapesEndpoint(t *testing.T) {
	testCases := []struct {
		description string
		endpoint    string
		expectPath  string
	}{
		{description: "query and fragment", endpoint: "orders?x=1#frag", expectPath: "/api/call/orders?x=1#frag"},
		{description: "nested with space", endpoint: "/billing/monthly report/", expectPath: "/api/call/billing/monthly report"},
		{description: "percent", endpoint: "rate%25", expectPath: "/api/call/rate%25"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, testCase.expectPath, r.URL.Path)
				assert.Equal(t, "SYNC", r.URL.Query().Get("apiCallType"))
				assert.Equal(t, "c-1", r.URL.Query().Get("correlationId"))
				assert.Empty(t, r.URL.Query().Get("x"))
				_, _ = w.Write([]byte(`{}`))
			}))
			defer server.Close()

			c := New(server.URL, "cid", "token")
			_, err := c.InvokeAPIMappingPost(context.Background(), &process.Invocation{
				Endpoint:      testCase.endpoint,
				CorrelationID: "c-1",
				CallType:      process.CallTypeSync,
			})
			require.NoError(t, err)
		})
	}
}

func TestClient_InvokeAPIMappingPostError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "cid", "token")
	_, err := c.InvokeAPIMappingPost(context.Background(), &process.Invocation{Endpoint: "x"})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

	_, err = c.InvokeAPIMappingPost(context.Background(), nil)
	assert.Error(t, err)
}

func TestClient_ProcessData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/process/context/77", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("includeSteps"))
		_, _ = w.Write([]byte(`{"processId":77,"status":"COMPLETED","stepRecords":[{"id":1,"ref":"s1","status":"COMPLETED"}]}`))
	}))
	defer server.Close()

	c := New(server.URL, "cid", "token")
	data, err := c.ProcessData(context.Background(), 77, true)
	require.NoError(t, err)
	assert.Equal(t, process.StatusCompleted, data.Status)
	require.Len(t, data.StepRecords, 1)
	assert.Equal(t, "s1", data.StepRecords[0].StepRef)
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	URL := server.URL
	server.Close()

	c := New(URL, "cid", "token")
	_, err := c.RunProcessSync(context.Background(), process.NewRequest("x"))
	assert.Error(t, err)
}
