package process

import "errors"

// DefaultNamespace is used whenever a request does not name a namespace.
const DefaultNamespace = "default"

// ErrNameRequired is returned for a request without a process name.
var ErrNameRequired = errors.New("Process name is required")

// Request represents a process start request
type Request struct {
	Name          string                 `json:"name"`
	Namespace     string                 `json:"namespace,omitempty"`
	Version       *int                   `json:"version,omitempty"`
	RequestID     string                 `json:"requestId,omitempty"`
	CorrelationID string                 `json:"correlationId,omitempty"`
	Input         map[string]interface{} `json:"input,omitempty"`
}

// RequestOption customises a request built by NewRequest
type RequestOption func(r *Request)

// WithNamespace sets the namespace
func WithNamespace(namespace string) RequestOption {
	return func(r *Request) { r.Namespace = namespace }
}

// WithVersion sets the process definition version
func WithVersion(version *int) RequestOption {
	return func(r *Request) { r.Version = version }
}

// WithRequestID sets the request ID
func WithRequestID(id string) RequestOption {
	return func(r *Request) { r.RequestID = id }
}

// WithCorrelationID sets the correlation ID
func WithCorrelationID(id string) RequestOption {
	return func(r *Request) { r.CorrelationID = id }
}

// WithInput sets the process input
func WithInput(input map[string]interface{}) RequestOption {
	return func(r *Request) { r.Input = input }
}

// NewRequest builds a request with the namespace default applied.
// The name is not checked here, see Validate.
func NewRequest(name string, options ...RequestOption) *Request {
	ret := &Request{Name: name}
	for _, opt := range options {
		opt(ret)
	}
	return ret.Defaulted()
}

// Defaulted returns a copy of the request with an empty namespace replaced by
// DefaultNamespace. All other fields are carried over as is.
func (r *Request) Defaulted() *Request {
	if r == nil {
		return nil
	}
	ret := *r
	if ret.Namespace == "" {
		ret.Namespace = DefaultNamespace
	}
	return &ret
}

// Validate checks that the request can be sent to the engine
func (r *Request) Validate() error {
	if r == nil || r.Name == "" {
		return ErrNameRequired
	}
	return nil
}
