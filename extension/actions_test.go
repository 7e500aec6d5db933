package extension

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unmeshed/unmeshed-mcp-server/model/types"
)

type echoService struct{}

type echoInput struct{ Text string }

func (e *echoService) Name() string { return "echo" }

func (e *echoService) Methods() types.Signatures {
	return types.Signatures{
		{Name: "say", Description: "echo text", Input: reflect.TypeOf(&echoInput{}), Output: reflect.TypeOf(&echoInput{})},
		{Name: "ping", Description: "health check"},
	}
}

func (e *echoService) Method(name string) (types.Executable, error) {
	return func(ctx context.Context, in, out interface{}) error { return nil }, nil
}

func TestActions(t *testing.T) {
	actions := NewActions(&echoService{}, nil)
	assert.NotNil(t, actions.Lookup("echo"))
	assert.Nil(t, actions.Lookup("missing"))

	tools := actions.Tools()
	if assert.Len(t, tools, 2) {
		assert.Equal(t, "echo.ping", tools[0].Name())
		assert.Equal(t, "echo.say", tools[1].Name())
		assert.Equal(t, "echo text", tools[1].Signature.Description)
	}
}
