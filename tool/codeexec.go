package tool

import (
	"context"
	"fmt"

	"github.com/rishi-s8/agentbuilder/sandbox"
)

// CodeExecutionTool runs model-authored code in a sandbox. Execution output
// is returned as data even on a non-zero exit, so the model can read stderr
// and fix its own code.
type CodeExecutionTool struct {
	sandbox sandbox.Sandbox
}

// NewCodeExecutionTool wraps a sandbox as the execute_code tool.
func NewCodeExecutionTool(sb sandbox.Sandbox) *CodeExecutionTool {
	return &CodeExecutionTool{sandbox: sb}
}

// Name implements Tool.
func (t *CodeExecutionTool) Name() string { return "execute_code" }

// Description implements Tool.
func (t *CodeExecutionTool) Description() string {
	return "Execute Python code in a sandboxed environment and return its stdout, stderr, and success flag. State persists across calls within a session."
}

// Parameters implements Tool.
func (t *CodeExecutionTool) Parameters() map[string]any {
	return ObjectSchema(Param{
		Name:        "code",
		Type:        "string",
		Description: "Python source code to execute",
		Required:    true,
	})
}

// Execute implements Tool.
func (t *CodeExecutionTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	code, ok := args["code"].(string)
	if !ok {
		return nil, fmt.Errorf("code must be a string")
	}

	res, err := t.sandbox.Execute(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("execute code: %w", err)
	}
	return map[string]any{
		"stdout":  res.Stdout,
		"stderr":  res.Stderr,
		"success": res.Success,
	}, nil
}

// NewSandboxTools returns the file and package tools that accompany
// execute_code: read_file, write_file, and install_package, all bound to the
// same sandbox.
func NewSandboxTools(sb sandbox.Sandbox) []Tool {
	readFile := NewFunctionTool(
		"read_file",
		"Read a file from the sandbox working directory.",
		ObjectSchema(Param{
			Name:        "path",
			Type:        "string",
			Description: "Path relative to the sandbox working directory",
			Required:    true,
		}),
		func(ctx context.Context, args map[string]any) (any, error) {
			path, ok := args["path"].(string)
			if !ok {
				return nil, fmt.Errorf("path must be a string")
			}
			content, err := sb.ReadFile(ctx, path)
			if err != nil {
				return nil, err
			}
			return map[string]any{"path": path, "content": content}, nil
		},
	)

	writeFile := NewFunctionTool(
		"write_file",
		"Write content to a file in the sandbox working directory, creating parent directories as needed.",
		ObjectSchema(
			Param{
				Name:        "path",
				Type:        "string",
				Description: "Path relative to the sandbox working directory",
				Required:    true,
			},
			Param{
				Name:        "content",
				Type:        "string",
				Description: "File content to write",
				Required:    true,
			},
		),
		func(ctx context.Context, args map[string]any) (any, error) {
			path, ok := args["path"].(string)
			if !ok {
				return nil, fmt.Errorf("path must be a string")
			}
			content, ok := args["content"].(string)
			if !ok {
				return nil, fmt.Errorf("content must be a string")
			}
			if err := sb.WriteFile(ctx, path, content); err != nil {
				return nil, err
			}
			return map[string]any{"path": path, "bytes_written": len(content)}, nil
		},
	)

	installPackage := NewFunctionTool(
		"install_package",
		"Install a Python package into the sandbox environment.",
		ObjectSchema(Param{
			Name:        "name",
			Type:        "string",
			Description: "Package name, optionally with a version specifier",
			Required:    true,
		}),
		func(ctx context.Context, args map[string]any) (any, error) {
			name, ok := args["name"].(string)
			if !ok {
				return nil, fmt.Errorf("name must be a string")
			}
			res, err := sb.InstallPackage(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("install %s: %w", name, err)
			}
			if !res.Success {
				return nil, fmt.Errorf("install %s failed: %s", name, res.Stderr)
			}
			return map[string]any{"name": name, "output": res.Stdout}, nil
		},
	)

	return []Tool{readFile, writeFile, installPackage}
}
