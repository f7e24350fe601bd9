// Package agentbuilder provides a high-level façade for assembling
// tool-using LLM agents: a plan-execute loop over an append-only
// conversation, schema-validated tool dispatch, sandboxed code execution,
// and local or remote sub-agent delegation. Most applications interact with
// this package by:
//  1. Creating an agent via NewAgent with a model client and tools
//  2. Driving it with Run (one user turn per call)
//  3. Optionally serving it over HTTP (server package) or delegating to it
//     from other agents (NewAgentTool / NewRemoteAgentTool)
//
// The façade re-exports the common construction paths; the underlying
// packages (agent, tool, model, sandbox, server) remain importable directly
// for anything beyond them.
package agentbuilder

import (
	"context"

	"github.com/rishi-s8/agentbuilder/agent"
	"github.com/rishi-s8/agentbuilder/model"
	"github.com/rishi-s8/agentbuilder/sandbox"
	"github.com/rishi-s8/agentbuilder/tool"
)

// Client aliases the model client contract so callers constructing simple
// agents need only this package.
type Client = model.Client

// Tool aliases the callable-capability contract.
type Tool = tool.Tool

// DefaultCodePrompt is the system prompt NewCodeAgent installs when the
// caller does not override it.
const DefaultCodePrompt = "You are a coding assistant with access to a sandboxed Python environment. " +
	"Write and execute code to solve the user's task. Inspect execution output, fix your own errors, " +
	"and install packages when a library is missing. Use the file tools to persist intermediate results."

// NewAgent creates an agent bound to a model client. See agent.Options for
// the available settings.
func NewAgent(client Client, optFns ...func(o *agent.Options)) *agent.Agent {
	return agent.New(client, optFns...)
}

// NewAgentFactory returns a factory producing identically configured fresh
// agents, the shape the server needs for per-session isolation. newClient
// runs once per session so sessions never share client state.
func NewAgentFactory(newClient func() Client, optFns ...func(o *agent.Options)) agent.Factory {
	return func() *agent.Agent {
		return agent.New(newClient(), optFns...)
	}
}

// NewAgentTool exposes a local agent as a delegation tool. The sub-agent is
// reset before every delegated task.
func NewAgentTool(name, description string, runner tool.Runner, optFns ...func(o *tool.AgentToolOptions)) *tool.AgentTool {
	return tool.NewAgentTool(name, description, runner, optFns...)
}

// NewRemoteAgentTool connects to an agent served at baseURL and exposes it
// as a delegation tool.
func NewRemoteAgentTool(ctx context.Context, baseURL string, optFns ...func(o *tool.RemoteAgentToolOptions)) (*tool.RemoteAgentTool, error) {
	return tool.NewRemoteAgentTool(ctx, baseURL, optFns...)
}

// NewCodeAgent creates an agent equipped with the sandbox tool set
// (execute_code, read_file, write_file, install_package) and a code-oriented
// default prompt. The caller owns the sandbox and closes it after use.
func NewCodeAgent(client Client, sb sandbox.Sandbox, optFns ...func(o *agent.Options)) *agent.Agent {
	return agent.New(client, func(o *agent.Options) {
		o.SystemPrompt = DefaultCodePrompt
		o.Tools = append([]tool.Tool{tool.NewCodeExecutionTool(sb)}, tool.NewSandboxTools(sb)...)
		for _, fn := range optFns {
			fn(o)
		}
	})
}
