package ai

import (
	"log/slog"
	"sort"
	"strings"
)

// partialCall accumulates the fragments seen for one tool-call index.
// ID, name and type resolve once (first non-empty fragment wins); argument
// fragments concatenate in arrival order.
type partialCall struct {
	index    int
	id       string
	name     string
	callType string
	args     strings.Builder
}

// aggregator consumes one incremental model response and reconstructs the
// plain-text answer plus every complete tool-call request.
type aggregator struct {
	log *slog.Logger

	// onTextDelta is a display side channel, invoked once per text delta as
	// it arrives. It never affects the returned result.
	onTextDelta func(string)
}

// run drains the stream. On a mid-stream transport failure everything
// accumulated so far is discarded and a TransportError is returned: one round
// is all-or-nothing.
func (a *aggregator) run(stream EventStream) (string, []ToolCallRequest, error) {
	var textBuf strings.Builder
	partials := make(map[int]*partialCall)

	for stream.Next() {
		event := stream.Current()
		if event.Text != "" {
			textBuf.WriteString(event.Text)
			if a.onTextDelta != nil {
				a.onTextDelta(event.Text)
			}
		}
		for _, frag := range event.Fragments {
			pc := partials[frag.Index]
			if pc == nil {
				pc = &partialCall{index: frag.Index}
				partials[frag.Index] = pc
			}
			if pc.id == "" {
				pc.id = strings.TrimSpace(frag.ID)
			}
			if pc.name == "" {
				pc.name = strings.TrimSpace(frag.Name)
			}
			if pc.callType == "" {
				pc.callType = strings.TrimSpace(frag.Type)
			}
			pc.args.WriteString(frag.ArgsJSON)
		}
	}
	if err := stream.Err(); err != nil {
		return "", nil, &TransportError{Err: err}
	}

	calls := make([]ToolCallRequest, 0, len(partials))
	for _, pc := range partials {
		calls = append(calls, ToolCallRequest{
			Index:        pc.index,
			ID:           pc.id,
			FunctionName: pc.name,
			Arguments:    pc.args.String(),
			Type:         pc.callType,
		})
	}
	sort.Slice(calls, func(i, j int) bool { return calls[i].Index < calls[j].Index })

	if a.log != nil {
		a.log.Debug("model round aggregated",
			"text_len", textBuf.Len(),
			"tool_calls", len(calls),
		)
	}
	return textBuf.String(), calls, nil
}
