package action

import "encoding/json"

// ToolCall describes a tool invocation requested by the model. Arguments is
// the raw JSON payload exactly as the provider emitted it; validation happens
// at dispatch time, not here.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Message is one persisted entry in a conversation history. Concrete message
// types implement the unexported isMessage marker enabling a closed set.
type Message interface{ isMessage() }

// UserMessage is a user-authored text entry.
type UserMessage struct {
	Content string
}

func (UserMessage) isMessage() {}

// AssistantMessage is a model-authored entry. It carries final text, pending
// tool calls, or both. An AssistantMessage with no tool calls terminates a
// run; one with tool calls drives tool execution next.
type AssistantMessage struct {
	Content   string
	ToolCalls []ToolCall
}

func (AssistantMessage) isMessage() {}

// ToolResultMessage records the outcome of a single tool call. Content is the
// JSON-serialized response envelope so the model receives structured feedback
// it can reason over.
type ToolResultMessage struct {
	ToolCallID string
	ToolName   string
	Content    string
}

func (ToolResultMessage) isMessage() {}

// Decision is a control action computed by the planner for one loop step.
// Decisions are never persisted; they are re-derived from conversation shape
// on every step.
type Decision interface{ isDecision() }

// Empty signals that the conversation has no history and there is nothing to
// do. Terminal.
type Empty struct{}

func (Empty) isDecision() {}

// Complete signals that the agent produced a final answer. Terminal.
type Complete struct {
	Content string
}

func (Complete) isDecision() {}

// ExecuteTools instructs the loop to run the pending tool calls from the last
// assistant message, strictly in the order the model issued them.
type ExecuteTools struct {
	ToolCalls []ToolCall
}

func (ExecuteTools) isDecision() {}

// MakeModelRequest instructs the loop to send the conversation to the model
// and append its reply.
type MakeModelRequest struct{}

func (MakeModelRequest) isDecision() {}
