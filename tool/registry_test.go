package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTool() Tool {
	return NewFunctionTool(
		"add",
		"Add two numbers.",
		ObjectSchema(
			Param{Name: "a", Type: "number", Required: true},
			Param{Name: "b", Type: "number", Required: true},
		),
		func(_ context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	)
}

func TestRegistry_ExecuteSuccess(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(addTool()))

	resp := reg.Execute(context.Background(), "add", json.RawMessage(`{"a":1,"b":2}`))
	assert.True(t, resp.Success)
	assert.Equal(t, float64(3), resp.Data)
	assert.Empty(t, resp.Error)
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(addTool()))

	err := reg.Register(addTool())
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

// Every failure mode must come back as an envelope, never a Go error.
func TestRegistry_FailureModesConvergeToEnvelope(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(addTool()))
	require.NoError(t, reg.Register(NewFunctionTool(
		"explode", "Always fails.", nil,
		func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("boom")
		},
	)))
	require.NoError(t, reg.Register(NewFunctionTool(
		"panic", "Always panics.", nil,
		func(context.Context, map[string]any) (any, error) {
			panic("unexpected state")
		},
	)))

	tests := []struct {
		name     string
		tool     string
		args     string
		contains string
	}{
		{"unknown tool", "no_such_tool", `{}`, "unknown tool"},
		{"malformed json", "add", `{"a":`, "invalid arguments"},
		{"non-object json", "add", `[1,2]`, "invalid arguments"},
		{"missing required", "add", `{"a":1}`, "invalid arguments"},
		{"wrong type", "add", `{"a":"one","b":2}`, "invalid arguments"},
		{"undeclared property", "add", `{"a":1,"b":2,"c":3}`, "invalid arguments"},
		{"handler error", "explode", `{}`, "boom"},
		{"handler panic", "panic", `{}`, "panicked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := reg.Execute(context.Background(), tt.tool, json.RawMessage(tt.args))
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.contains)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestRegistry_DefaultsFillAbsentArguments(t *testing.T) {
	var seen map[string]any
	greet := NewFunctionTool(
		"greet",
		"Greet someone.",
		ObjectSchema(
			Param{Name: "name", Type: "string", Required: true},
			Param{Name: "greeting", Type: "string", Default: "hello"},
		),
		func(_ context.Context, args map[string]any) (any, error) {
			seen = args
			return args["greeting"].(string) + " " + args["name"].(string), nil
		},
	)

	reg := NewRegistry()
	require.NoError(t, reg.Register(greet))

	resp := reg.Execute(context.Background(), "greet", json.RawMessage(`{"name":"ada"}`))
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "hello ada", resp.Data)
	assert.Equal(t, "hello", seen["greeting"])

	// An explicit argument wins over the default.
	resp = reg.Execute(context.Background(), "greet", json.RawMessage(`{"name":"ada","greeting":"hi"}`))
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "hi ada", resp.Data)
}

func TestRegistry_EmptyArgumentsForNoParamTool(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewFunctionTool(
		"ping", "Returns pong.", nil,
		func(context.Context, map[string]any) (any, error) { return "pong", nil },
	)))

	for _, raw := range []json.RawMessage{nil, []byte(`{}`)} {
		resp := reg.Execute(context.Background(), "ping", raw)
		require.True(t, resp.Success, resp.Error)
		assert.Equal(t, "pong", resp.Data)
	}
}

func TestRegistry_NamesAndToolsSorted(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(
		NewFunctionTool("zeta", "", nil, func(context.Context, map[string]any) (any, error) { return nil, nil }),
		NewFunctionTool("alpha", "", nil, func(context.Context, map[string]any) (any, error) { return nil, nil }),
	)

	assert.Equal(t, []string{"alpha", "zeta"}, reg.Names())
	require.Len(t, reg.Tools(), 2)
	assert.Equal(t, "alpha", reg.Tools()[0].Name())
	assert.Equal(t, 2, reg.Len())
}

func TestResponse_JSON(t *testing.T) {
	assert.JSONEq(t, `{"success":true,"data":3}`, Ok(3).JSON())
	assert.JSONEq(t, `{"success":false,"error":"bad input"}`, Fail("bad %s", "input").JSON())
}
