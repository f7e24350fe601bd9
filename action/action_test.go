package action

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCodec_RoundTrip(t *testing.T) {
	history := []Message{
		UserMessage{Content: "What is 2 + 3?"},
		AssistantMessage{
			ToolCalls: []ToolCall{
				{ID: "call_1", Name: "add", Arguments: json.RawMessage(`{"a":2,"b":3}`)},
				{ID: "call_2", Name: "add", Arguments: json.RawMessage(`{"a":1,"b":1}`)},
			},
		},
		ToolResultMessage{ToolCallID: "call_1", ToolName: "add", Content: `{"success":true,"data":5}`},
		ToolResultMessage{ToolCallID: "call_2", ToolName: "add", Content: `{"success":true,"data":2}`},
		AssistantMessage{Content: "2 + 3 is 5."},
	}

	data, err := MarshalHistory(history)
	require.NoError(t, err)

	got, err := UnmarshalHistory(data)
	require.NoError(t, err)
	require.Len(t, got, len(history))

	assert.Equal(t, history[0], got[0])
	assert.Equal(t, history[2], got[2])
	assert.Equal(t, history[3], got[3])
	assert.Equal(t, history[4], got[4])

	asst, ok := got[1].(AssistantMessage)
	require.True(t, ok)
	require.Len(t, asst.ToolCalls, 2)
	assert.Equal(t, "call_1", asst.ToolCalls[0].ID)
	assert.Equal(t, "call_2", asst.ToolCalls[1].ID)
	assert.JSONEq(t, `{"a":2,"b":3}`, string(asst.ToolCalls[0].Arguments))
}

func TestHistoryCodec_EmptyHistory(t *testing.T) {
	data, err := MarshalHistory(nil)
	require.NoError(t, err)

	got, err := UnmarshalHistory(data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoryCodec_RoleTags(t *testing.T) {
	data, err := MarshalHistory([]Message{
		UserMessage{Content: "hi"},
		AssistantMessage{Content: "hello"},
		ToolResultMessage{ToolCallID: "c1", ToolName: "noop", Content: "{}"},
	})
	require.NoError(t, err)

	var wire []map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	require.Len(t, wire, 3)
	assert.Equal(t, "user", wire[0]["role"])
	assert.Equal(t, "assistant", wire[1]["role"])
	assert.Equal(t, "tool", wire[2]["role"])
	assert.Equal(t, "c1", wire[2]["tool_call_id"])
	assert.Equal(t, "noop", wire[2]["name"])
}

func TestUnmarshalHistory_UnknownRole(t *testing.T) {
	_, err := UnmarshalHistory([]byte(`[{"role":"oracle","content":"?"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestUnmarshalHistory_MalformedJSON(t *testing.T) {
	_, err := UnmarshalHistory([]byte(`{"not":"a list"`))
	require.Error(t, err)
}
