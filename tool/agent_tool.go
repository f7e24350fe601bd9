package tool

import (
	"context"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// Runner is the slice of an agent the delegation tools need. Declared here
// so tools stay decoupled from the agent package.
type Runner interface {
	Run(ctx context.Context, message string) (string, error)
	Reset()
}

// AgentToolOptions configure an AgentTool.
type AgentToolOptions struct {
	// Logger receives per-delegation logs. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// AgentTool exposes an in-process sub-agent as a callable tool. Each call
// resets the sub-agent first, so delegations are independent tasks with no
// memory between them.
type AgentTool struct {
	name        string
	description string
	runner      Runner
	logger      zerolog.Logger
}

// NewAgentTool wraps a runner as a delegation tool. Name is the tool name
// the parent's model sees; description tells it when to delegate.
func NewAgentTool(name, description string, runner Runner, optFns ...func(o *AgentToolOptions)) *AgentTool {
	opts := AgentToolOptions{Logger: zerolog.Nop()}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &AgentTool{
		name:        name,
		description: description,
		runner:      runner,
		logger:      opts.Logger,
	}
}

// Name implements Tool.
func (t *AgentTool) Name() string { return t.name }

// Description implements Tool.
func (t *AgentTool) Description() string { return t.description }

// Parameters implements Tool.
func (t *AgentTool) Parameters() map[string]any {
	return ObjectSchema(Param{
		Name:        "task",
		Type:        "string",
		Description: "Self-contained task description for the sub-agent",
		Required:    true,
	})
}

// Execute implements Tool. The reset happens before every run, not after:
// a crashed run must not leak its history into the next delegation.
func (t *AgentTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	task, ok := args["task"].(string)
	if !ok {
		return nil, fmt.Errorf("task must be a string")
	}

	runID, _ := gonanoid.New()
	t.logger.Info().Str("agent", t.name).Str("run_id", runID).Msg("Delegating to sub-agent")

	t.runner.Reset()
	result, err := t.runner.Run(ctx, task)
	if err != nil {
		t.logger.Warn().Str("agent", t.name).Str("run_id", runID).Err(err).Msg("Sub-agent run failed")
		return nil, fmt.Errorf("sub-agent %s: %w", t.name, err)
	}

	t.logger.Info().Str("agent", t.name).Str("run_id", runID).Msg("Sub-agent run complete")
	return result, nil
}
