package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rishi-s8/agentbuilder/action"
)

// ToolDefinition declares a callable tool to the model. Parameters is a JSON
// Schema object describing the tool's arguments.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request is one normalized completion request: the immutable system prompt,
// the full ordered history, and the tools the model may call.
type Request struct {
	Instructions string
	History      []action.Message
	Tools        []ToolDefinition
}

// Response is the provider-neutral completion result. A response carries
// final text, requested tool calls, or both; the planner treats a non-empty
// ToolCalls slice as the dominant signal.
type Response struct {
	Content   string
	ToolCalls []action.ToolCall
}

// Info contains metadata about a client implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Client is the minimal interface the loop needs to drive generation.
// Complete blocks until the provider answers and is one of the loop's two
// suspension points.
type Client interface {
	// Complete sends the request to the provider and returns its reply.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the client implementation.
	Info() Info
}

// ProviderError wraps a transport, auth, or rate-limit failure from a model
// provider. Unlike tool failures it is never folded into the conversation:
// the loop has no fallback model, so the error aborts the run and surfaces
// to the caller.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider error: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// MockClient is a scripted in-memory Client for tests and examples. Queued
// responses are consumed in FIFO order; when the script is exhausted the
// client echoes the most recent user message.
type MockClient struct {
	mu       sync.Mutex
	script   []Response
	err      error
	requests []Request
}

// NewMockClient creates an empty MockClient.
func NewMockClient() *MockClient { return &MockClient{} }

// QueueText queues a plain-text completion.
func (m *MockClient) QueueText(text string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, Response{Content: text})
	return m
}

// QueueToolCall queues a completion requesting a single tool call with a
// generated call ID.
func (m *MockClient) QueueToolCall(name, arguments string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, Response{ToolCalls: []action.ToolCall{{
		ID:        "call_" + uuid.NewString(),
		Name:      name,
		Arguments: []byte(arguments),
	}}})
	return m
}

// QueueResponse queues an arbitrary completion.
func (m *MockClient) QueueResponse(resp Response) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
	return m
}

// FailWith makes every subsequent Complete call fail with err wrapped in a
// ProviderError.
func (m *MockClient) FailWith(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Complete implements Client.
func (m *MockClient) Complete(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if m.err != nil {
		return nil, &ProviderError{Provider: "mock", Err: m.err}
	}
	if len(m.script) > 0 {
		resp := m.script[0]
		m.script = m.script[1:]
		return &resp, nil
	}

	var lastUser string
	for _, msg := range req.History {
		if u, ok := msg.(action.UserMessage); ok {
			lastUser = u.Content
		}
	}
	return &Response{Content: fmt.Sprintf("Mock response to: %s", lastUser)}, nil
}

// Info implements Client.
func (m *MockClient) Info() Info { return Info{Name: "mock", Provider: "mock"} }

// Requests returns every request Complete received, in call order.
func (m *MockClient) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns how many times Complete was invoked.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
