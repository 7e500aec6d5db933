package idgen

import "github.com/google/uuid"

// NewFunc generates tool call identifiers, tests may replace it.
var NewFunc = func() string { return "call_" + uuid.New().String() }

// New returns a new tool call identifier
func New() string { return NewFunc() }
