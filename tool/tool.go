package tool

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is the contract every callable capability implements. Parameters
// returns a JSON Schema object; Execute receives arguments already decoded
// and validated against that schema.
type Tool interface {
	// Name returns the unique tool identifier exposed to the model.
	Name() string

	// Description explains to the model what the tool does.
	Description() string

	// Parameters returns the JSON Schema for the tool's arguments.
	Parameters() map[string]any

	// Execute runs the tool. A returned error is folded into the response
	// envelope by the registry, never propagated to the loop.
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Response is the uniform envelope every tool execution produces. Exactly
// one of Data and Error is meaningful: Data when Success, Error otherwise.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Ok wraps a successful result.
func Ok(data any) Response { return Response{Success: true, Data: data} }

// Fail wraps an error message.
func Fail(format string, args ...any) Response {
	return Response{Success: false, Error: fmt.Sprintf(format, args...)}
}

// JSON renders the envelope as the string recorded in conversation history.
func (r Response) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		// Data resisted serialization; keep the envelope shape.
		fallback, _ := json.Marshal(Response{Success: false, Error: fmt.Sprintf("marshal response: %v", err)})
		return string(fallback)
	}
	return string(data)
}
