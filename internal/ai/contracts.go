// Package ai implements the conversational orchestration core: it turns one
// user utterance into a finished assistant reply by streaming a model
// response, reconstructing tool calls from the fragment stream, dispatching
// them through the capability registry, and feeding results back into the
// transcript until the model answers in plain text.
package ai

import (
	"context"
	"strings"

	"github.com/gina-ai/gina/internal/ai/tools"
)

// Role is a chat turn role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn in the conversation transcript.
//
// Content is empty on an assistant turn that only announces tool calls.
// ToolCallID and Name are set only on tool turns and link the result back to
// the originating request in the immediately preceding assistant turn.
type Message struct {
	Role       Role              `json:"role"`
	Content    string            `json:"content,omitempty"`
	ToolCalls  []ToolCallRequest `json:"tool_calls,omitempty"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
	Name       string            `json:"name,omitempty"`
}

// ToolCallRequest is a fully reassembled request to invoke a capability.
//
// Index is the fragment-reassembly key and is only stable within one model
// response. ID and FunctionName are resolved once (first non-empty fragment
// wins); Arguments is the concatenation of every fragment seen for the index,
// in arrival order, and is valid JSON only once the stream completed.
type ToolCallRequest struct {
	Index        int    `json:"index"`
	ID           string `json:"id"`
	FunctionName string `json:"function_name"`
	Arguments    string `json:"arguments"`
	Type         string `json:"type,omitempty"`
}

// ToolCallFragment is a partial piece of one tool call delivered by a single
// stream event. Zero-valued fields mean "not present in this fragment".
type ToolCallFragment struct {
	Index    int
	ID       string
	Name     string
	ArgsJSON string
	Type     string
}

// StreamEvent is one increment of a model response: an optional text delta
// and zero or more tool-call fragments.
type StreamEvent struct {
	Text      string
	Fragments []ToolCallFragment
}

// EventStream is the incremental model response consumed by the aggregator.
// The shape mirrors the SDK server-sent-event streams: Next advances, Current
// returns the event, Err reports a mid-stream transport failure after Next
// returns false.
type EventStream interface {
	Next() bool
	Current() StreamEvent
	Err() error
}

// TurnRequest carries the full transcript snapshot plus the combined schema
// list for one model invocation.
type TurnRequest struct {
	Model    string
	Messages []Message
	Schemas  []tools.Schema
}

// Provider opens one streamed model turn. The caller owns consumption of the
// returned stream; providers translate their wire format into StreamEvents.
type Provider interface {
	StreamTurn(ctx context.Context, req TurnRequest) (EventStream, error)
}

func systemPromptText(messages []Message) string {
	parts := make([]string, 0, 2)
	for _, msg := range messages {
		if msg.Role != RoleSystem {
			continue
		}
		if txt := strings.TrimSpace(msg.Content); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, "\n\n")
}
