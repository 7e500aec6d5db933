package unmeshed

import (
	"context"
	"fmt"

	"github.com/unmeshed/unmeshed-mcp-server/model/process"
	"github.com/unmeshed/unmeshed-mcp-server/model/types"
)

type StatusInput struct {
	ProcessID    int64 `json:"processId" required:"true" description:"The engine assigned process ID."`
	IncludeSteps bool  `json:"includeSteps,omitempty" description:"Include executed step records."`
}

func (i *StatusInput) Validate() error {
	if i.ProcessID <= 0 {
		return fmt.Errorf("processId is required")
	}
	return nil
}

type StatusOutput struct {
	process.Data
}

func (s *Service) status(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*StatusInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*StatusOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	if err := input.Validate(); err != nil {
		return err
	}
	data, err := s.gateway.ProcessData(ctx, input.ProcessID, input.IncludeSteps)
	if err != nil {
		return err
	}
	if data != nil {
		output.Data = *data
	}
	return nil
}
