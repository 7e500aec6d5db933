package process

import (
	"fmt"
	"strings"
)

// CallType selects how the engine executes an API mapping
type CallType string

const (
	CallTypeSync   CallType = "SYNC"
	CallTypeAsync  CallType = "ASYNC"
	CallTypeStream CallType = "STREAM"
)

// Valid returns true for a known call type
func (c CallType) Valid() bool {
	switch c {
	case CallTypeSync, CallTypeAsync, CallTypeStream:
		return true
	}
	return false
}

// ParseCallType parses call type case-insensitively
func ParseCallType(value string) (CallType, error) {
	ret := CallType(strings.ToUpper(strings.TrimSpace(value)))
	if !ret.Valid() {
		return "", fmt.Errorf("unsupported api call type: %q, expected one of SYNC, ASYNC, STREAM", value)
	}
	return ret, nil
}

// Invocation represents an API mapping call, it is forwarded verbatim
type Invocation struct {
	Endpoint      string                 `json:"endpoint"`
	RequestID     string                 `json:"requestId,omitempty"`
	CorrelationID string                 `json:"correlationId,omitempty"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
	CallType      CallType               `json:"callType,omitempty"`
}
