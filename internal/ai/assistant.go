package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gina-ai/gina/internal/ai/tools"
	"github.com/gina-ai/gina/internal/persona"
	"github.com/google/uuid"
)

const defaultMaxRounds = 8

// Options configures an Assistant. Provider and Registry are required.
type Options struct {
	Log      *slog.Logger
	Provider Provider
	Registry *tools.Registry
	Personas *persona.Store
	Model    string

	// MaxRounds caps model round trips per SendMessage call. Zero means the
	// default of 8; exceeding it fails the call with a RoundLimitError.
	MaxRounds int

	// OnTextDelta receives each text delta as it arrives, for incremental
	// display. Optional.
	OnTextDelta func(string)
}

// Assistant is the caller-facing facade for one conversation: set a persona,
// send one message, get the final text back.
//
// An Assistant is not safe for concurrent SendMessage calls; one call owns
// the conversation state for its entire multi-round lifetime.
type Assistant struct {
	log         *slog.Logger
	provider    Provider
	registry    *tools.Registry
	personas    *persona.Store
	model       string
	maxRounds   int
	onTextDelta func(string)
	conv        *Conversation
}

func New(opts Options) (*Assistant, error) {
	if opts.Provider == nil {
		return nil, errors.New("nil provider")
	}
	if opts.Registry == nil {
		return nil, errors.New("nil registry")
	}
	maxRounds := opts.MaxRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxRounds
	}
	personas := opts.Personas
	if personas == nil {
		personas = persona.NewStore(nil)
	}
	return &Assistant{
		log:         opts.Log,
		provider:    opts.Provider,
		registry:    opts.Registry,
		personas:    personas,
		model:       strings.TrimSpace(opts.Model),
		maxRounds:   maxRounds,
		onTextDelta: opts.OnTextDelta,
		conv:        NewConversation(),
	}, nil
}

// Conversation exposes the transcript, mainly for inspection in tests.
func (a *Assistant) Conversation() *Conversation { return a.conv }

// SetPersona appends the named persona's description as a system turn.
// An unknown name is a silent no-op, not an error.
func (a *Assistant) SetPersona(name string) {
	p, ok := a.personas.Find(name)
	if !ok {
		if a.log != nil {
			a.log.Debug("persona not found", "persona", name)
		}
		return
	}
	a.conv.Append(Message{Role: RoleSystem, Content: p.Description})
	if a.log != nil {
		a.log.Debug("persona set", "persona", p.Name)
	}
}

// SendMessage appends one turn, runs the model/tool dispatch cycle to
// completion and returns the final assistant text.
//
// The cycle: stream one model round; if it yields no tool calls the round's
// text is appended and returned. Otherwise the assistant's tool-call
// announcement and each tool's result are appended in index order, and the
// model is invoked again over the grown transcript. Per-tool failures are
// absorbed into the transcript so the model can react to them; only a broken
// stream (TransportError) or the round cap abort the cycle.
func (a *Assistant) SendMessage(ctx context.Context, role Role, text string) (string, error) {
	if role == "" {
		role = RoleUser
	}
	a.conv.Append(Message{Role: role, Content: text})

	for round := 0; round < a.maxRounds; round++ {
		stream, err := a.provider.StreamTurn(ctx, TurnRequest{
			Model:    a.model,
			Messages: a.conv.Snapshot(),
			Schemas:  a.registry.Schemas(),
		})
		if err != nil {
			return "", &TransportError{Err: err}
		}

		agg := &aggregator{log: a.log, onTextDelta: a.onTextDelta}
		roundText, calls, err := agg.run(stream)
		if err != nil {
			return "", err
		}

		if len(calls) == 0 {
			a.conv.Append(Message{Role: RoleAssistant, Content: roundText})
			return roundText, nil
		}

		// A tool turn's tool_call_id must match an id carried by the
		// announcing assistant turn, so id-less calls get their fallback id
		// minted here, before the announcement is appended.
		for i := range calls {
			if strings.TrimSpace(calls[i].ID) == "" {
				calls[i].ID = "call_" + uuid.NewString()
			}
		}
		a.conv.Append(Message{Role: RoleAssistant, ToolCalls: calls})
		for _, call := range calls {
			a.conv.Append(a.dispatch(ctx, call))
		}
	}
	return "", &RoundLimitError{Rounds: a.maxRounds}
}

// toolFailure is the serialized shape of a handled per-tool error. The model
// sees it as the tool's result on the next round.
type toolFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type toolResultEnvelope struct {
	Error *toolFailure `json:"error,omitempty"`
}

// dispatch resolves and invokes one reconstructed tool call, returning the
// tool-role message to append. Every outcome, success or handled failure,
// becomes a message; dispatch itself never fails the round.
func (a *Assistant) dispatch(ctx context.Context, call ToolCallRequest) Message {
	callID := strings.TrimSpace(call.ID)
	msg := Message{
		Role:       RoleTool,
		ToolCallID: callID,
		Name:       call.FunctionName,
	}

	args := make(map[string]any)
	if raw := strings.TrimSpace(call.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			a.warnTool(call, "invalid_arguments", err)
			msg.Content = encodeFailure("invalid_arguments", fmt.Sprintf("arguments are not valid JSON: %v", err))
			return msg
		}
	}

	capability, ok := a.registry.Lookup(call.FunctionName)
	if !ok {
		a.warnTool(call, "unknown_capability", nil)
		msg.Content = encodeFailure("unknown_capability", fmt.Sprintf("no capability named %q is registered", call.FunctionName))
		return msg
	}

	result, err := capability.Invoke(ctx, args)
	if err != nil {
		a.warnTool(call, "invocation_failed", err)
		msg.Content = encodeFailure("invocation_failed", err.Error())
		return msg
	}

	msg.Content = encodeResult(result)
	if a.log != nil {
		a.log.Debug("tool call dispatched",
			"tool_call_id", callID,
			"function", call.FunctionName,
		)
	}
	return msg
}

func (a *Assistant) warnTool(call ToolCallRequest, code string, err error) {
	if a.log == nil {
		return
	}
	a.log.Warn("tool call failed",
		"tool_call_id", call.ID,
		"function", call.FunctionName,
		"code", code,
		"error", err,
	)
}

// encodeResult serializes a capability's return value for the transcript.
// Plain strings pass through untouched; everything else becomes JSON.
func encodeResult(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	b, err := json.Marshal(result)
	if err != nil {
		return encodeFailure("invocation_failed", fmt.Sprintf("result not serializable: %v", err))
	}
	return string(b)
}

func encodeFailure(code string, message string) string {
	b, _ := json.Marshal(toolResultEnvelope{Error: &toolFailure{Code: code, Message: message}})
	return string(b)
}
