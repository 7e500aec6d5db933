package process

import "strings"

// ErrorKey is the output key carrying a failure message
const ErrorKey = "error"

// Status represents engine process status
type Status string

const (
	StatusRunning    Status = "RUNNING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusTimedOut   Status = "TIMED_OUT"
	StatusCancelled  Status = "CANCELLED"
	StatusTerminated Status = "TERMINATED"
	StatusSkipped    Status = "SKIPPED"
)

// IsTerminal returns true when the engine will not progress the process any further
func (s Status) IsTerminal() bool {
	switch Status(strings.ToUpper(string(s))) {
	case StatusCompleted, StatusFailed, StatusTimedOut, StatusCancelled, StatusTerminated, StatusSkipped:
		return true
	}
	return false
}

// StepRecord represents an executed step summary
type StepRecord struct {
	StepID   int64  `json:"id,omitempty"`
	StepRef  string `json:"ref,omitempty"`
	StepType string `json:"type,omitempty"`
	Status   Status `json:"status,omitempty"`
	Created  int64  `json:"created,omitempty"`
	Updated  int64  `json:"updated,omitempty"`
}

// Data represents engine process data returned by start and status calls.
// A Data produced locally for a failure carries only Output[ErrorKey].
type Data struct {
	ProcessID     int64                  `json:"processId,omitempty"`
	ProcessType   string                 `json:"processType,omitempty"`
	TriggerType   string                 `json:"triggerType,omitempty"`
	Namespace     string                 `json:"namespace,omitempty"`
	Name          string                 `json:"name,omitempty"`
	Version       *int                   `json:"version,omitempty"`
	RequestID     string                 `json:"requestId,omitempty"`
	CorrelationID string                 `json:"correlationId,omitempty"`
	Status        Status                 `json:"status,omitempty"`
	Input         map[string]interface{} `json:"input,omitempty"`
	Output        map[string]interface{} `json:"output,omitempty"`
	Created       int64                  `json:"created,omitempty"`
	Updated       int64                  `json:"updated,omitempty"`
	StepRecords   []*StepRecord          `json:"stepRecords,omitempty"`
}

// NewErrorData creates process data carrying only an error message
func NewErrorData(message string) *Data {
	return &Data{Output: map[string]interface{}{ErrorKey: message}}
}

// Error returns the error message carried in the output, if any
func (d *Data) Error() string {
	if d == nil || d.Output == nil {
		return ""
	}
	if msg, ok := d.Output[ErrorKey].(string); ok {
		return msg
	}
	return ""
}

// HasError returns true if the output carries an error message
func (d *Data) HasError() bool {
	return d.Error() != ""
}
