package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgentServer mimics the serving protocol: /info, session lifecycle, run.
type fakeAgentServer struct {
	mu       sync.Mutex
	sessions map[string]int
	resets   int
	runs     []string
	failRuns bool
}

func newFakeAgentServer() *fakeAgentServer {
	return &fakeAgentServer{sessions: map[string]int{}}
}

func (f *fakeAgentServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name":        "remote_researcher",
			"description": "Researches things remotely.",
		})
	})
	mux.HandleFunc("POST /sessions", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		id := "sess-1"
		f.sessions[id] = 0
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"session_id": id})
	})
	mux.HandleFunc("POST /sessions/{id}/run", func(w http.ResponseWriter, r *http.Request) {
		if f.failRuns {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.runs = append(f.runs, body.Message)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "answer to " + body.Message})
	})
	mux.HandleFunc("POST /sessions/{id}/reset", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		f.resets++
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "reset"})
	})
	mux.HandleFunc("DELETE /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		delete(f.sessions, r.PathValue("id"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestRemoteAgentTool_DiscoversIdentityAndDelegates(t *testing.T) {
	fake := newFakeAgentServer()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rt, err := NewRemoteAgentTool(context.Background(), srv.URL)
	require.NoError(t, err)
	defer func() { _ = rt.Close(context.Background()) }()

	assert.Equal(t, "remote_researcher", rt.Name())
	assert.Equal(t, "Researches things remotely.", rt.Description())

	reg := NewRegistry()
	require.NoError(t, reg.Register(rt))

	resp := reg.Execute(context.Background(), "remote_researcher", json.RawMessage(`{"task":"find papers"}`))
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "answer to find papers", resp.Data)
	assert.Equal(t, []string{"find papers"}, fake.runs)

	// Default behavior: consecutive calls share the session without resets.
	_ = reg.Execute(context.Background(), "remote_researcher", json.RawMessage(`{"task":"summarize"}`))
	assert.Zero(t, fake.resets)
	assert.Len(t, fake.runs, 2)
}

func TestRemoteAgentTool_ResetPerCall(t *testing.T) {
	fake := newFakeAgentServer()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rt, err := NewRemoteAgentTool(context.Background(), srv.URL, func(o *RemoteAgentToolOptions) {
		o.ResetPerCall = true
	})
	require.NoError(t, err)
	defer func() { _ = rt.Close(context.Background()) }()

	_, err = rt.Execute(context.Background(), map[string]any{"task": "a"})
	require.NoError(t, err)
	_, err = rt.Execute(context.Background(), map[string]any{"task": "b"})
	require.NoError(t, err)

	assert.Equal(t, 2, fake.resets)
}

func TestRemoteAgentTool_NameOverride(t *testing.T) {
	srv := httptest.NewServer(newFakeAgentServer().handler())
	defer srv.Close()

	rt, err := NewRemoteAgentTool(context.Background(), srv.URL, func(o *RemoteAgentToolOptions) {
		o.Name = "specialist"
	})
	require.NoError(t, err)
	defer func() { _ = rt.Close(context.Background()) }()

	assert.Equal(t, "specialist", rt.Name())
}

func TestRemoteAgentTool_UnreachableServerFailsConstruction(t *testing.T) {
	srv := httptest.NewServer(newFakeAgentServer().handler())
	srv.Close()

	_, err := NewRemoteAgentTool(context.Background(), srv.URL)
	require.Error(t, err)

	var terr *TransportError
	assert.ErrorAs(t, err, &terr)
}

func TestRemoteAgentTool_ServerErrorBecomesEnvelope(t *testing.T) {
	fake := newFakeAgentServer()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rt, err := NewRemoteAgentTool(context.Background(), srv.URL)
	require.NoError(t, err)
	defer func() { _ = rt.Close(context.Background()) }()

	fake.failRuns = true

	reg := NewRegistry()
	require.NoError(t, reg.Register(rt))

	resp := reg.Execute(context.Background(), "remote_researcher", json.RawMessage(`{"task":"x"}`))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unexpected status 500")
}

func TestRemoteAgentTool_CloseIsIdempotent(t *testing.T) {
	fake := newFakeAgentServer()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	rt, err := NewRemoteAgentTool(context.Background(), srv.URL)
	require.NoError(t, err)

	require.NoError(t, rt.Close(context.Background()))
	require.NoError(t, rt.Close(context.Background()))
	assert.Empty(t, fake.sessions)

	// A closed tool fails delegation without touching the network.
	_, err = rt.Execute(context.Background(), map[string]any{"task": "x"})
	var terr *TransportError
	assert.ErrorAs(t, err, &terr)
}
