package agent

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rishi-s8/agentbuilder/action"
	"github.com/rishi-s8/agentbuilder/conversation"
	"github.com/rishi-s8/agentbuilder/model"
	"github.com/rishi-s8/agentbuilder/planner"
	"github.com/rishi-s8/agentbuilder/tool"
)

// MaxIterationsMessage is returned as the run result when the iteration cap
// is reached. It is a result, not an error: the conversation stays intact
// and the caller can continue with a follow-up run.
const MaxIterationsMessage = "Max iterations reached"

// ErrDelegationDepthExceeded is returned when a delegation chain exceeds the
// configured depth, breaking delegation cycles between agents.
var ErrDelegationDepthExceeded = errors.New("delegation depth exceeded")

type depthKey struct{}

// withDepth stores the delegation depth in the context.
func withDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, depthKey{}, depth)
}

// depthFrom reads the delegation depth; an untouched context is depth zero.
func depthFrom(ctx context.Context) int {
	if d, ok := ctx.Value(depthKey{}).(int); ok {
		return d
	}
	return 0
}

// Options configure an Agent.
type Options struct {
	// SystemPrompt is the immutable instruction set for the agent's model.
	SystemPrompt string

	// Tools are registered at construction; a duplicate name panics there
	// rather than failing mid-run.
	Tools []tool.Tool

	// MaxIterations caps decide/act cycles per run.
	MaxIterations int

	// MaxDelegationDepth caps the length of agent-delegation chains.
	MaxDelegationDepth int

	// Logger receives run and loop logs. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// Agent drives the plan-execute loop: it owns a conversation, a planner, a
// tool registry, and a model client. An Agent is single-threaded; callers
// needing concurrent runs create one agent per session.
type Agent struct {
	conv     *conversation.Conversation
	planner  *planner.Planner
	registry *tool.Registry
	client   model.Client
	opts     Options
}

// Factory builds a fresh, identically configured agent. The server uses one
// factory per served agent to give every session its own instance.
type Factory func() *Agent

// New creates an agent bound to a model client.
func New(client model.Client, optFns ...func(o *Options)) *Agent {
	opts := Options{
		MaxIterations:      80,
		MaxDelegationDepth: 8,
		Logger:             zerolog.Nop(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.Logger = opts.Logger
	})
	registry.MustRegister(opts.Tools...)

	return &Agent{
		conv:     conversation.New(opts.SystemPrompt),
		planner:  planner.New(),
		registry: registry,
		client:   client,
		opts:     opts,
	}
}

// Run appends the user message and drives the loop until a terminal
// decision, the iteration cap, or a provider error. Tool failures never
// surface here; they are folded into the conversation for the model to see.
func (a *Agent) Run(ctx context.Context, message string) (string, error) {
	depth := depthFrom(ctx)
	if depth > a.opts.MaxDelegationDepth {
		return "", ErrDelegationDepthExceeded
	}
	toolCtx := withDepth(ctx, depth+1)

	a.conv.Append(action.UserMessage{Content: message})
	a.opts.Logger.Debug().Int("depth", depth).Msg("Run started")

	iterations := 0
	for {
		if iterations >= a.opts.MaxIterations {
			a.opts.Logger.Warn().Int("iterations", iterations).Msg("Iteration cap reached")
			return MaxIterationsMessage, nil
		}

		switch decision := a.planner.Decide(a.conv).(type) {
		case action.Empty:
			return "", nil

		case action.Complete:
			a.opts.Logger.Debug().Int("iterations", iterations).Msg("Run complete")
			return decision.Content, nil

		case action.MakeModelRequest:
			resp, err := a.client.Complete(ctx, model.Request{
				Instructions: a.conv.SystemPrompt(),
				History:      a.conv.History(),
				Tools:        a.toolDefinitions(),
			})
			if err != nil {
				return "", err
			}
			a.conv.Append(action.AssistantMessage{
				Content:   resp.Content,
				ToolCalls: resp.ToolCalls,
			})

		case action.ExecuteTools:
			// Calls run sequentially in the order the model issued them.
			for _, call := range decision.ToolCalls {
				resp := a.registry.Execute(toolCtx, call.Name, call.Arguments)
				a.conv.Append(action.ToolResultMessage{
					ToolCallID: call.ID,
					ToolName:   call.Name,
					Content:    resp.JSON(),
				})
			}
		}

		iterations++
	}
}

// Reset clears the conversation history, keeping the system prompt.
func (a *Agent) Reset() {
	a.conv.Reset()
}

// Conversation returns the agent's conversation.
func (a *Agent) Conversation() *conversation.Conversation { return a.conv }

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *tool.Registry { return a.registry }

// Client returns the agent's model client.
func (a *Agent) Client() model.Client { return a.client }

func (a *Agent) toolDefinitions() []model.ToolDefinition {
	tools := a.registry.Tools()
	if len(tools) == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, len(tools))
	for i, t := range tools {
		defs[i] = model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		}
	}
	return defs
}
