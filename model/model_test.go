package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rishi-s8/agentbuilder/action"
)

func TestMockClient_ScriptIsFIFO(t *testing.T) {
	mock := NewMockClient().
		QueueText("first").
		QueueToolCall("add", `{"a":1,"b":2}`).
		QueueText("second")

	resp, err := mock.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content)

	resp, err = mock.Complete(context.Background(), Request{})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "add", resp.ToolCalls[0].Name)
	assert.NotEmpty(t, resp.ToolCalls[0].ID)

	resp, err = mock.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Content)

	assert.Equal(t, 3, mock.CallCount())
}

func TestMockClient_ExhaustedScriptEchoesUser(t *testing.T) {
	mock := NewMockClient()
	resp, err := mock.Complete(context.Background(), Request{
		History: []action.Message{action.UserMessage{Content: "ping"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: ping", resp.Content)
}

func TestMockClient_FailWithWrapsProviderError(t *testing.T) {
	cause := errors.New("rate limited")
	mock := NewMockClient().QueueText("never returned").FailWith(cause)

	_, err := mock.Complete(context.Background(), Request{})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "mock", provErr.Provider)
	assert.ErrorIs(t, err, cause)
}

func TestMockClient_RecordsRequests(t *testing.T) {
	mock := NewMockClient().QueueText("ok")
	req := Request{
		Instructions: "be brief",
		History:      []action.Message{action.UserMessage{Content: "hi"}},
		Tools:        []ToolDefinition{{Name: "add"}},
	}
	_, err := mock.Complete(context.Background(), req)
	require.NoError(t, err)

	got := mock.Requests()
	require.Len(t, got, 1)
	assert.Equal(t, "be brief", got[0].Instructions)
	require.Len(t, got[0].Tools, 1)
	assert.Equal(t, "add", got[0].Tools[0].Name)
}
