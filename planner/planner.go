package planner

import (
	"github.com/rishi-s8/agentbuilder/action"
	"github.com/rishi-s8/agentbuilder/conversation"
)

// Planner decides the next control action from conversation shape. It holds
// no state and performs no I/O: the decision is a pure function of the last
// history entry, re-derived on every call.
//
// Decision table, evaluated in priority order:
//  1. Empty history                        -> Empty (terminal)
//  2. Assistant message with tool calls    -> ExecuteTools (those calls)
//  3. Assistant message without tool calls -> Complete (its text, terminal)
//  4. User or tool-result message          -> MakeModelRequest
type Planner struct{}

// New constructs a Planner.
func New() *Planner { return &Planner{} }

// Decide returns the next control action for the conversation. O(1): only
// the last entry is inspected.
func (p *Planner) Decide(conv *conversation.Conversation) action.Decision {
	last, ok := conv.Last()
	if !ok {
		return action.Empty{}
	}

	switch msg := last.(type) {
	case action.AssistantMessage:
		if len(msg.ToolCalls) > 0 {
			return action.ExecuteTools{ToolCalls: msg.ToolCalls}
		}
		return action.Complete{Content: msg.Content}
	default:
		// UserMessage or ToolResultMessage: the model speaks next.
		return action.MakeModelRequest{}
	}
}
