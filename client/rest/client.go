package rest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/unmeshed/unmeshed-mcp-server/client"
	"github.com/unmeshed/unmeshed-mcp-server/model/process"
	"github.com/unmeshed/unmeshed-mcp-server/tracing"
)

const (
	runAsyncPath       = "/api/process/runAsync"
	runSyncPath        = "/api/process/runSync"
	processContextPath = "/api/process/context/"
	apiCallPath        = "/api/call/"
)

// Client implements client.Client over the engine REST API
type Client struct {
	baseURL   string
	clientID  string
	authToken string
	client    *http.Client
}

// Ensure Client implements client.Client
var _ client.Client = (*Client)(nil)

// New creates a REST client; baseURL must already carry the port.
func New(baseURL, clientID, authToken string, opts ...Option) *Client {
	ret := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		clientID:  clientID,
		authToken: authToken,
		client:    &http.Client{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// RunProcessAsync starts a process and returns once the engine accepted it
func (c *Client) RunProcessAsync(ctx context.Context, request *process.Request) (*process.Data, error) {
	return c.runProcess(ctx, runAsyncPath, request)
}

// RunProcessSync starts a process and waits for its completion
func (c *Client) RunProcessSync(ctx context.Context, request *process.Request) (*process.Data, error) {
	return c.runProcess(ctx, runSyncPath, request)
}

func (c *Client) runProcess(ctx context.Context, path string, request *process.Request) (*process.Data, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	query := url.Values{}
	query.Set("clientId", c.clientID)
	respBody, err := c.do(ctx, http.MethodPost, path, query, body)
	if err != nil {
		return nil, err
	}
	ret := &process.Data{}
	if err := json.Unmarshal(respBody, ret); err != nil {
		return nil, fmt.Errorf("unmarshal process data: %w", err)
	}
	return ret, nil
}

// InvokeAPIMappingPost posts the payload to the API mapping endpoint and returns the raw response
func (c *Client) InvokeAPIMappingPost(ctx context.Context, invocation *process.Invocation) (json.RawMessage, error) {
	if invocation == nil {
		return nil, fmt.Errorf("invocation was nil")
	}
	body, err := json.Marshal(invocation.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	query := url.Values{}
	if invocation.RequestID != "" {
		query.Set("id", invocation.RequestID)
	}
	if invocation.CorrelationID != "" {
		query.Set("correlationId", invocation.CorrelationID)
	}
	if invocation.CallType != "" {
		query.Set("apiCallType", string(invocation.CallType))
	}
	respBody, err := c.do(ctx, http.MethodPost, apiCallPath+escapeEndpoint(invocation.Endpoint), query, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}
	return json.RawMessage(respBody), nil
}

// escapeEndpoint escapes every path segment so '?' or '#' stay part of the endpoint
func escapeEndpoint(endpoint string) string {
	segments := strings.Split(strings.Trim(endpoint, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// ProcessData loads process data by ID
func (c *Client) ProcessData(ctx context.Context, processID int64, includeSteps bool) (*process.Data, error) {
	query := url.Values{}
	query.Set("includeSteps", strconv.FormatBool(includeSteps))
	respBody, err := c.do(ctx, http.MethodGet, processContextPath+strconv.FormatInt(processID, 10), query, nil)
	if err != nil {
		return nil, err
	}
	ret := &process.Data{}
	if err := json.Unmarshal(respBody, ret); err != nil {
		return nil, fmt.Errorf("unmarshal process data: %w", err)
	}
	return ret, nil
}

// Close releases idle connections
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (ret []byte, err error) {
	ctx, span := tracing.StartSpan(ctx, "unmeshed "+method+" "+path, tracing.KindClient)
	defer func() { span.End(err) }()

	URL := c.baseURL + path
	if len(query) > 0 {
		URL += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, URL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(httpReq)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()
	span.SetHTTPStatus(httpResp.StatusCode)

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{StatusCode: httpResp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+AuthorizationToken(c.clientID, c.authToken))
}

// AuthorizationToken returns the bearer token derived from client ID and auth token
func AuthorizationToken(clientID, authToken string) string {
	sum := sha256.Sum256([]byte(authToken))
	return "client.sdk." + clientID + "." + hex.EncodeToString(sum[:])
}
