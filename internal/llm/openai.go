package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIBackend implements Backend over the OpenAI chat-completions API.
//
// A zero Timeout applies no per-call deadline beyond the caller's context,
// which matches the original deployment; setting one is the recommended
// production configuration.
type OpenAIBackend struct {
	client    openai.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

// NewOpenAIBackend builds a backend for the given API key and model.
func NewOpenAIBackend(apiKey, model string, maxTokens int64, timeout time.Duration) *OpenAIBackend {
	return &OpenAIBackend{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

// Complete sends the context turns and the action catalog to the model and
// maps the first tool call (if any) into an ActionCall. Text and action may
// both be present; the caller decides precedence.
func (b *OpenAIBackend) Complete(ctx context.Context, turns []Turn, tools []Tool) (Completion, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case "system":
			msgs = append(msgs, openai.SystemMessage(t.Content))
		case "assistant":
			msgs = append(msgs, openai.AssistantMessage(t.Content))
		default:
			msgs = append(msgs, openai.UserMessage(t.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(b.model),
		Messages: msgs,
		Tools:    toolParams(tools),
	}
	if b.maxTokens > 0 {
		params.MaxTokens = openai.Int(b.maxTokens)
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return Completion{}, nil
	}

	msg := resp.Choices[0].Message
	out := Completion{Text: strings.TrimSpace(msg.Content)}
	if len(msg.ToolCalls) > 0 {
		// Only the first call is honored; the dispatcher processes at most
		// one action per inbound message.
		tc := msg.ToolCalls[0]
		args := tc.Function.Arguments
		if strings.TrimSpace(args) == "" {
			args = "{}"
		}
		out.Action = &ActionCall{
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(args),
		}
	}
	return out, nil
}

// toolParams converts catalog entries to the SDK's function-tool shape.
func toolParams(tools []Tool) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		schema := openai.FunctionParameters{
			"type":       "object",
			"properties": t.Parameters,
		}
		if t.Parameters == nil {
			schema["properties"] = map[string]any{}
		}
		if len(t.Required) > 0 {
			schema["required"] = t.Required
		}
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  schema,
			},
		})
	}
	return out
}
