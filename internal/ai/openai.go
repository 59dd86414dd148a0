package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gina-ai/gina/internal/ai/tools"
	openai "github.com/openai/openai-go"
	ooption "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	oresponses "github.com/openai/openai-go/responses"
	oshared "github.com/openai/openai-go/shared"
)

const defaultMaxOutputTokens = 4096

// OpenAIProvider streams model turns through the OpenAI Responses API and
// translates its events into the normalized fragment stream.
type OpenAIProvider struct {
	client openai.Client
}

func NewOpenAIProvider(apiKey string, baseURL string) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("missing openai api key")
	}
	opts := []ooption.RequestOption{ooption.WithAPIKey(strings.TrimSpace(apiKey))}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, ooption.WithBaseURL(strings.TrimSpace(baseURL)))
	}
	return &OpenAIProvider{client: openai.NewClient(opts...)}, nil
}

func (p *OpenAIProvider) StreamTurn(ctx context.Context, req TurnRequest) (EventStream, error) {
	if p == nil {
		return nil, errors.New("nil provider")
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, errors.New("missing model")
	}

	params := oresponses.ResponseNewParams{
		Model:             oshared.ResponsesModel(strings.TrimSpace(req.Model)),
		MaxOutputTokens:   openai.Int(defaultMaxOutputTokens),
		ParallelToolCalls: openai.Bool(false),
	}
	items, instructions := buildOpenAIInput(req.Messages)
	if len(items) == 0 {
		items = append(items, oresponses.ResponseInputItemParamOfMessage("Continue.", oresponses.EasyInputMessageRoleUser))
	}
	params.Input = oresponses.ResponseNewParamsInputUnion{OfInputItemList: items}
	if strings.TrimSpace(instructions) != "" {
		params.Instructions = openai.String(strings.TrimSpace(instructions))
	}
	if defs := buildOpenAITools(req.Schemas); len(defs) > 0 {
		params.Tools = defs
	}

	return &openAIStream{
		stream:    p.client.Responses.NewStreaming(ctx, params),
		itemIndex: make(map[string]int),
		argBytes:  make(map[int]int),
	}, nil
}

// openAIStream adapts the Responses SSE stream. Function-call items are keyed
// by item id on the wire; the adapter maps each item to a stable fragment
// index taken from the item's output position.
type openAIStream struct {
	stream    *ssestream.Stream[oresponses.ResponseStreamEventUnion]
	cur       StreamEvent
	itemIndex map[string]int
	argBytes  map[int]int
	nextIndex int
}

func (s *openAIStream) Next() bool {
	for s.stream.Next() {
		event := s.stream.Current()
		switch strings.TrimSpace(event.Type) {
		case "response.output_text.delta":
			delta := event.Delta.OfString
			if delta == "" {
				continue
			}
			s.cur = StreamEvent{Text: delta}
			return true

		case "response.output_item.added":
			item := event.Item
			if strings.TrimSpace(item.Type) != "function_call" {
				continue
			}
			idx := s.indexFor(item.ID, int(event.OutputIndex))
			frag := ToolCallFragment{
				Index: idx,
				ID:    strings.TrimSpace(item.CallID),
				Name:  strings.TrimSpace(item.Name),
				Type:  "function",
			}
			if raw := strings.TrimSpace(item.Arguments); raw != "" {
				frag.ArgsJSON = raw
				s.argBytes[idx] += len(raw)
			}
			s.cur = StreamEvent{Fragments: []ToolCallFragment{frag}}
			return true

		case "response.function_call_arguments.delta":
			delta := event.Delta.OfString
			if delta == "" {
				continue
			}
			idx := s.indexFor(event.ItemID, -1)
			s.argBytes[idx] += len(delta)
			s.cur = StreamEvent{Fragments: []ToolCallFragment{{Index: idx, ArgsJSON: delta}}}
			return true

		case "response.output_item.done":
			item := event.Item
			if strings.TrimSpace(item.Type) != "function_call" {
				continue
			}
			idx := s.indexFor(item.ID, int(event.OutputIndex))
			frag := ToolCallFragment{
				Index: idx,
				ID:    strings.TrimSpace(item.CallID),
				Name:  strings.TrimSpace(item.Name),
				Type:  "function",
			}
			// Some responses deliver the full argument string only on the
			// done item; emit it once, never on top of earlier deltas.
			if raw := strings.TrimSpace(item.Arguments); raw != "" && s.argBytes[idx] == 0 {
				frag.ArgsJSON = raw
				s.argBytes[idx] += len(raw)
			}
			if frag.ID == "" && frag.Name == "" && frag.ArgsJSON == "" {
				continue
			}
			s.cur = StreamEvent{Fragments: []ToolCallFragment{frag}}
			return true
		}
	}
	return false
}

func (s *openAIStream) Current() StreamEvent { return s.cur }

func (s *openAIStream) Err() error { return s.stream.Err() }

func (s *openAIStream) indexFor(itemID string, outputIndex int) int {
	itemID = strings.TrimSpace(itemID)
	if idx, ok := s.itemIndex[itemID]; ok {
		return idx
	}
	idx := outputIndex
	if idx < 0 {
		idx = s.nextIndex
	}
	if idx >= s.nextIndex {
		s.nextIndex = idx + 1
	}
	s.itemIndex[itemID] = idx
	return idx
}

func buildOpenAIInput(messages []Message) (oresponses.ResponseInputParam, string) {
	items := make(oresponses.ResponseInputParam, 0, len(messages))
	instructions := ""
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			txt := strings.TrimSpace(msg.Content)
			if txt == "" {
				continue
			}
			if instructions == "" {
				instructions = txt
			} else {
				instructions += "\n\n" + txt
			}
		case RoleTool:
			callID := strings.TrimSpace(msg.ToolCallID)
			if callID == "" {
				continue
			}
			items = append(items, oresponses.ResponseInputItemParamOfFunctionCallOutput(callID, msg.Content))
		case RoleAssistant:
			if txt := strings.TrimSpace(msg.Content); txt != "" {
				items = append(items, oresponses.ResponseInputItemParamOfMessage(txt, oresponses.EasyInputMessageRoleAssistant))
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
				items = append(items, oresponses.ResponseInputItemParamOfFunctionCall(argsRaw, callID, name))
			}
		default:
			if txt := strings.TrimSpace(msg.Content); txt != "" {
				items = append(items, oresponses.ResponseInputItemParamOfMessage(txt, oresponses.EasyInputMessageRoleUser))
			}
		}
	}
	return items, instructions
}

func buildOpenAITools(schemas []tools.Schema) []oresponses.ToolUnionParam {
	out := make([]oresponses.ToolUnionParam, 0, len(schemas))
	for _, schema := range schemas {
		name := strings.TrimSpace(schema.Name)
		if name == "" {
			continue
		}
		params := schema.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		tool := oresponses.ToolParamOfFunction(name, params, false)
		if tool.OfFunction != nil && strings.TrimSpace(schema.Description) != "" {
			tool.OfFunction.Description = openai.String(strings.TrimSpace(schema.Description))
		}
		out = append(out, tool)
	}
	return out
}
