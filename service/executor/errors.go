package executor

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrMethodNotFound  = errors.New("method not found in service")
	ErrRejected        = errors.New("tool call rejected by policy")
)
