// Package openai adapts the OpenAI Chat Completions API (including
// function/tool calling) to the generic model.Client interface. It converts
// the normalized conversation history into the SDK's message format and back.
package openai

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/openai/openai-go"

	"github.com/rishi-s8/agentbuilder/action"
	"github.com/rishi-s8/agentbuilder/model"
)

// Options configure the OpenAI client adapter. Fields mirror a deliberately
// minimal subset of Chat Completion parameters; extend via functional options
// without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Client wraps the OpenAI Chat Completions API behind model.Client.
type Client struct {
	client *openai.Client
	opts   Options
}

// New creates an OpenAI client using the official SDK with ambient
// configuration (OPENAI_API_KEY).
func New(optFns ...func(o *Options)) *Client {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates an OpenAI client adapter from an existing SDK client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// Complete implements model.Client.
func (c *Client) Complete(ctx context.Context, req model.Request) (*model.Response, error) {
	params := c.buildParams(req)

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, &model.ProviderError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &model.ProviderError{Provider: "openai", Err: errors.New("no choices returned")}
	}

	msg := resp.Choices[0].Message
	out := &model.Response{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, action.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return out, nil
}

// buildParams assembles the OpenAI request including tool definitions.
func (c *Client) buildParams(req model.Request) openai.ChatCompletionNewParams {
	messages := buildMessages(req)
	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
	}
	if len(req.Tools) == 0 {
		return params
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, tdef := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        tdef.Name,
				Description: openai.String(tdef.Description),
				Parameters:  tdef.Parameters,
			},
		}
	}
	params.Tools = tools
	return params
}

// buildMessages converts the normalized history into OpenAI chat messages.
// The system prompt leads; tool results map onto role "tool" messages keyed
// by call ID.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}
	for _, m := range req.History {
		switch msg := m.(type) {
		case action.UserMessage:
			messages = append(messages, openai.UserMessage(msg.Content))
		case action.AssistantMessage:
			if len(msg.ToolCalls) == 0 {
				messages = append(messages, openai.AssistantMessage(msg.Content))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: string(tc.Arguments),
					},
				}
			}
			messages = append(
				messages,
				openai.ChatCompletionMessageParamUnion{OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: toolCalls,
				}},
			)
		case action.ToolResultMessage:
			messages = append(messages, openai.ToolMessage(msg.Content, msg.ToolCallID))
		}
	}
	return messages
}

// Info returns metadata describing this OpenAI client.
func (c *Client) Info() model.Info {
	return model.Info{Name: c.opts.Model, Provider: "openai"}
}
