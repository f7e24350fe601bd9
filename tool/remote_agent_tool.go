package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RemoteAgentToolOptions configure a RemoteAgentTool.
type RemoteAgentToolOptions struct {
	// Name overrides the tool name discovered from the remote /info endpoint.
	Name string

	// ResetPerCall resets the remote session before every delegation, making
	// remote calls behave like local AgentTool delegations. Off by default:
	// the remote session keeps context across calls, which lets a parent
	// iterate with the same specialist.
	ResetPerCall bool

	// HTTPClient is the client used for all requests.
	HTTPClient *http.Client

	// Logger receives per-delegation logs. Defaults to a no-op logger.
	Logger zerolog.Logger
}

// RemoteAgentTool exposes an agent served over HTTP as a callable tool. The
// constructor discovers the remote agent's identity and opens a dedicated
// session; all delegations flow through that session until Close.
type RemoteAgentTool struct {
	name        string
	description string
	baseURL     string
	sessionID   string
	opts        RemoteAgentToolOptions

	mu     sync.Mutex
	closed bool
}

type infoPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type sessionPayload struct {
	SessionID string `json:"session_id"`
}

type runPayload struct {
	Response string `json:"response"`
}

// NewRemoteAgentTool connects to the agent served at baseURL. It fails fast:
// an unreachable server surfaces here rather than on the first delegation.
func NewRemoteAgentTool(ctx context.Context, baseURL string, optFns ...func(o *RemoteAgentToolOptions)) (*RemoteAgentTool, error) {
	opts := RemoteAgentToolOptions{
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		Logger:     zerolog.Nop(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	t := &RemoteAgentTool{
		baseURL: strings.TrimRight(baseURL, "/"),
		opts:    opts,
	}

	var info infoPayload
	if err := t.call(ctx, http.MethodGet, "/info", nil, &info); err != nil {
		return nil, err
	}

	var session sessionPayload
	if err := t.call(ctx, http.MethodPost, "/sessions", map[string]any{}, &session); err != nil {
		return nil, err
	}
	t.sessionID = session.SessionID

	t.name = opts.Name
	if t.name == "" {
		t.name = info.Name
	}
	t.description = info.Description

	opts.Logger.Info().
		Str("agent", t.name).
		Str("base_url", t.baseURL).
		Str("session_id", t.sessionID).
		Msg("Connected to remote agent")

	return t, nil
}

// Name implements Tool.
func (t *RemoteAgentTool) Name() string { return t.name }

// Description implements Tool.
func (t *RemoteAgentTool) Description() string { return t.description }

// Parameters implements Tool.
func (t *RemoteAgentTool) Parameters() map[string]any {
	return ObjectSchema(Param{
		Name:        "task",
		Type:        "string",
		Description: "Self-contained task description for the remote agent",
		Required:    true,
	})
}

// Execute implements Tool. Transport and protocol failures return a
// TransportError, which the registry folds into the envelope like any other
// tool failure.
func (t *RemoteAgentTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	task, ok := args["task"].(string)
	if !ok {
		return nil, fmt.Errorf("task must be a string")
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, &TransportError{Op: "run", Err: fmt.Errorf("tool is closed")}
	}
	sessionID := t.sessionID
	t.mu.Unlock()

	if t.opts.ResetPerCall {
		if err := t.call(ctx, http.MethodPost, "/sessions/"+sessionID+"/reset", map[string]any{}, nil); err != nil {
			return nil, err
		}
	}

	t.opts.Logger.Info().Str("agent", t.name).Str("session_id", sessionID).Msg("Delegating to remote agent")

	var run runPayload
	if err := t.call(ctx, http.MethodPost, "/sessions/"+sessionID+"/run", map[string]any{"message": task}, &run); err != nil {
		return nil, err
	}
	return run.Response, nil
}

// Close deletes the remote session. Idempotent.
func (t *RemoteAgentTool) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	sessionID := t.sessionID
	t.mu.Unlock()

	return t.call(ctx, http.MethodDelete, "/sessions/"+sessionID, nil, nil)
}

// call performs one HTTP round trip against the remote agent, decoding a
// JSON response into out when given.
func (t *RemoteAgentTool) call(ctx context.Context, method, path string, body any, out any) error {
	op := method + " " + path

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.opts.HTTPClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}
