package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishi-s8/agentbuilder/sandbox"
)

type fakeSandbox struct {
	files    map[string]string
	executed []string
}

func newFakeSandbox() *fakeSandbox {
	return &fakeSandbox{files: map[string]string{}}
}

func (f *fakeSandbox) Execute(_ context.Context, code string) (sandbox.Result, error) {
	f.executed = append(f.executed, code)
	return sandbox.Result{Stdout: "ran: " + code, Success: true}, nil
}

func (f *fakeSandbox) ReadFile(_ context.Context, path string) (string, error) {
	content, ok := f.files[path]
	if !ok {
		return "", fmt.Errorf("no such file: %s", path)
	}
	return content, nil
}

func (f *fakeSandbox) WriteFile(_ context.Context, path, content string) error {
	f.files[path] = content
	return nil
}

func (f *fakeSandbox) InstallPackage(_ context.Context, name string) (sandbox.Result, error) {
	return sandbox.Result{Stdout: "installed " + name, Success: true}, nil
}

func (f *fakeSandbox) Close() error { return nil }

func TestCodeExecutionTool_ReturnsOutputFields(t *testing.T) {
	sb := newFakeSandbox()
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewCodeExecutionTool(sb)))

	resp := reg.Execute(context.Background(), "execute_code", json.RawMessage(`{"code":"print(1)"}`))
	require.True(t, resp.Success, resp.Error)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "ran: print(1)", data["stdout"])
	assert.Equal(t, true, data["success"])
	assert.Equal(t, []string{"print(1)"}, sb.executed)
}

func TestSandboxTools_FileRoundTripAndInstall(t *testing.T) {
	sb := newFakeSandbox()
	reg := NewRegistry()
	for _, tl := range NewSandboxTools(sb) {
		require.NoError(t, reg.Register(tl))
	}
	assert.Equal(t, []string{"install_package", "read_file", "write_file"}, reg.Names())

	resp := reg.Execute(context.Background(), "write_file", json.RawMessage(`{"path":"a.txt","content":"hi"}`))
	require.True(t, resp.Success, resp.Error)

	resp = reg.Execute(context.Background(), "read_file", json.RawMessage(`{"path":"a.txt"}`))
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "hi", resp.Data.(map[string]any)["content"])

	resp = reg.Execute(context.Background(), "read_file", json.RawMessage(`{"path":"missing.txt"}`))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "no such file")

	resp = reg.Execute(context.Background(), "install_package", json.RawMessage(`{"name":"numpy"}`))
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "numpy", resp.Data.(map[string]any)["name"])
}
