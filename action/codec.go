package action

import (
	"encoding/json"
	"fmt"
)

// wireMessage is the role-tagged persisted form of a Message. One shape for
// all roles keeps the on-disk format a plain ordered log that other tooling
// can read.
type wireMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleTool      = "tool"
)

// MarshalHistory serializes an ordered history to role-tagged JSON. The
// output round-trips through UnmarshalHistory with identical entries in
// identical order. Output is compact: indenting would reformat the raw
// tool-call arguments and break byte-exact round trips.
func MarshalHistory(history []Message) ([]byte, error) {
	wire := make([]wireMessage, 0, len(history))
	for i, msg := range history {
		switch m := msg.(type) {
		case UserMessage:
			wire = append(wire, wireMessage{Role: roleUser, Content: m.Content})
		case AssistantMessage:
			wire = append(wire, wireMessage{Role: roleAssistant, Content: m.Content, ToolCalls: m.ToolCalls})
		case ToolResultMessage:
			wire = append(wire, wireMessage{Role: roleTool, Content: m.Content, ToolCallID: m.ToolCallID, Name: m.ToolName})
		default:
			return nil, fmt.Errorf("history entry %d: unsupported message type %T", i, msg)
		}
	}
	return json.Marshal(wire)
}

// UnmarshalHistory parses role-tagged JSON produced by MarshalHistory back
// into an ordered history.
func UnmarshalHistory(data []byte) ([]Message, error) {
	var wire []wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	history := make([]Message, 0, len(wire))
	for i, w := range wire {
		switch w.Role {
		case roleUser:
			history = append(history, UserMessage{Content: w.Content})
		case roleAssistant:
			history = append(history, AssistantMessage{Content: w.Content, ToolCalls: w.ToolCalls})
		case roleTool:
			history = append(history, ToolResultMessage{ToolCallID: w.ToolCallID, ToolName: w.Name, Content: w.Content})
		default:
			return nil, fmt.Errorf("history entry %d: unknown role %q", i, w.Role)
		}
	}
	return history, nil
}
