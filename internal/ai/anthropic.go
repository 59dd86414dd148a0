package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"github.com/gina-ai/gina/internal/ai/tools"
)

// AnthropicProvider streams model turns through the Anthropic Messages API.
// Tool-use content blocks arrive keyed by content-block index, which maps
// directly onto the fragment index.
type AnthropicProvider struct {
	client anthropic.Client
}

func NewAnthropicProvider(apiKey string, baseURL string) (*AnthropicProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing anthropic api key")
	}
	opts := []aoption.RequestOption{aoption.WithAPIKey(strings.TrimSpace(apiKey))}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, aoption.WithBaseURL(strings.TrimSpace(baseURL)))
	}
	return &AnthropicProvider{client: anthropic.NewClient(opts...)}, nil
}

func (p *AnthropicProvider) StreamTurn(ctx context.Context, req TurnRequest) (EventStream, error) {
	if p == nil {
		return nil, errors.New("nil provider")
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, errors.New("missing model")
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(strings.TrimSpace(req.Model)),
		MaxTokens: defaultMaxOutputTokens,
		Messages:  buildAnthropicMessages(req.Messages),
	}
	if defs := buildAnthropicTools(req.Schemas); len(defs) > 0 {
		params.Tools = defs
	}
	if system := systemPromptText(req.Messages); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	return &anthropicStream{stream: p.client.Messages.NewStreaming(ctx, params)}, nil
}

type anthropicStream struct {
	stream *ssestream.Stream[anthropic.MessageStreamEventUnion]
	cur    StreamEvent
}

func (s *anthropicStream) Next() bool {
	for s.stream.Next() {
		event := s.stream.Current()
		switch variant := event.AsAny().(type) {
		case anthropic.ContentBlockStartEvent:
			if strings.TrimSpace(variant.ContentBlock.Type) != "tool_use" {
				continue
			}
			frag := ToolCallFragment{
				Index: int(variant.Index),
				ID:    strings.TrimSpace(variant.ContentBlock.ID),
				Name:  strings.TrimSpace(variant.ContentBlock.Name),
				Type:  "tool_use",
			}
			if variant.ContentBlock.Input != nil {
				if b, err := json.Marshal(variant.ContentBlock.Input); err == nil {
					if raw := strings.TrimSpace(string(b)); raw != "" && raw != "{}" && raw != "null" {
						frag.ArgsJSON = raw
					}
				}
			}
			s.cur = StreamEvent{Fragments: []ToolCallFragment{frag}}
			return true

		case anthropic.ContentBlockDeltaEvent:
			switch delta := variant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if delta.Text == "" {
					continue
				}
				s.cur = StreamEvent{Text: delta.Text}
				return true
			case anthropic.InputJSONDelta:
				if delta.PartialJSON == "" {
					continue
				}
				s.cur = StreamEvent{Fragments: []ToolCallFragment{{
					Index:    int(variant.Index),
					ArgsJSON: delta.PartialJSON,
				}}}
				return true
			}
		}
	}
	return false
}

func (s *anthropicStream) Current() StreamEvent { return s.cur }

func (s *anthropicStream) Err() error { return s.stream.Err() }

func buildAnthropicMessages(messages []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages)+1)
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			// Delivered through the top-level system field.
			continue
		case RoleTool:
			callID := strings.TrimSpace(msg.ToolCallID)
			if callID == "" {
				continue
			}
			out = append(out, anthropic.NewUserMessage(anthropic.NewToolResultBlock(callID, msg.Content, false)))
		case RoleAssistant:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.ToolCalls)+1)
			if txt := strings.TrimSpace(msg.Content); txt != "" {
				blocks = append(blocks, anthropic.NewTextBlock(txt))
			}
			for _, call := range msg.ToolCalls {
				callID := strings.TrimSpace(call.ID)
				name := strings.TrimSpace(call.FunctionName)
				if callID == "" || name == "" {
					continue
				}
				argsRaw := strings.TrimSpace(call.Arguments)
				if argsRaw == "" || !json.Valid([]byte(argsRaw)) {
					argsRaw = "{}"
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(callID, json.RawMessage(argsRaw), name))
			}
			if len(blocks) == 0 {
				continue
			}
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		default:
			if txt := strings.TrimSpace(msg.Content); txt != "" {
				out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(txt)))
			}
		}
	}
	if len(out) == 0 {
		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock("Continue.")))
	}
	return out
}

func buildAnthropicTools(schemas []tools.Schema) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(schemas))
	for _, schema := range schemas {
		name := strings.TrimSpace(schema.Name)
		if name == "" {
			continue
		}
		properties := schema.Parameters["properties"]
		required, _ := schema.Parameters["required"].([]string)
		param := anthropic.ToolParam{
			Name:        name,
			Description: anthropic.String(strings.TrimSpace(schema.Description)),
			InputSchema: anthropic.ToolInputSchemaParam{Type: "object", Properties: properties, Required: required},
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &param})
	}
	return out
}
