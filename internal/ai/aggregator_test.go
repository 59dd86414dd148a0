package ai

import (
	"errors"
	"testing"
)

// fakeStream replays a fixed event sequence, optionally failing afterwards.
type fakeStream struct {
	events []StreamEvent
	err    error
	pos    int
}

func (s *fakeStream) Next() bool {
	if s.pos >= len(s.events) {
		return false
	}
	s.pos++
	return true
}

func (s *fakeStream) Current() StreamEvent { return s.events[s.pos-1] }

func (s *fakeStream) Err() error { return s.err }

func TestAggregator_ConcatenatesTextDeltasInOrder(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{events: []StreamEvent{
		{Text: "Nothing "},
		{Text: "is currently "},
		{Text: "playing."},
	}}
	var seen []string
	agg := &aggregator{onTextDelta: func(d string) { seen = append(seen, d) }}
	text, calls, err := agg.run(stream)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if text != "Nothing is currently playing." {
		t.Fatalf("text = %q", text)
	}
	if len(calls) != 0 {
		t.Fatalf("got %d tool calls, want 0", len(calls))
	}
	if len(seen) != 3 || seen[1] != "is currently " {
		t.Fatalf("progress callback saw %q", seen)
	}
}

func TestAggregator_FirstNonNullWinsForIDNameType(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{events: []StreamEvent{
		{Fragments: []ToolCallFragment{{Index: 0, ArgsJSON: `{"que`}}},
		{Fragments: []ToolCallFragment{{Index: 0, ID: "call_1", Name: "search_track", Type: "function"}}},
		{Fragments: []ToolCallFragment{{Index: 0, ID: "call_other", Name: "other_name", Type: "other", ArgsJSON: `ry":"a"}`}}},
	}}
	agg := &aggregator{}
	_, calls, err := agg.run(stream)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	call := calls[0]
	if call.ID != "call_1" || call.FunctionName != "search_track" || call.Type != "function" {
		t.Fatalf("later fragments overwrote resolved fields: %+v", call)
	}
	if call.Arguments != `{"query":"a"}` {
		t.Fatalf("arguments = %q, want concatenation in arrival order", call.Arguments)
	}
}

func TestAggregator_GroupsFragmentsByIndexAndSortsAscending(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{events: []StreamEvent{
		{Fragments: []ToolCallFragment{{Index: 3, ID: "call_b", Name: "pause_playback", ArgsJSON: "{}"}}},
		{Fragments: []ToolCallFragment{{Index: 1, ID: "call_a", Name: "fetch_playback_state"}}},
		{Fragments: []ToolCallFragment{{Index: 1, ArgsJSON: "{}"}}},
	}}
	agg := &aggregator{}
	_, calls, err := agg.run(stream)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	if calls[0].Index != 1 || calls[1].Index != 3 {
		t.Fatalf("call order = %d,%d; want ascending by index", calls[0].Index, calls[1].Index)
	}
	if calls[0].ID != "call_a" || calls[1].ID != "call_b" {
		t.Fatalf("ids = %q,%q", calls[0].ID, calls[1].ID)
	}
}

func TestAggregator_TransportErrorDiscardsPartials(t *testing.T) {
	t.Parallel()

	stream := &fakeStream{
		events: []StreamEvent{
			{Text: "partial answer "},
			{Fragments: []ToolCallFragment{{Index: 0, ID: "call_1", Name: "get_track", ArgsJSON: `{"id":`}}},
		},
		err: errors.New("connection reset"),
	}
	agg := &aggregator{}
	text, calls, err := agg.run(stream)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want TransportError", err)
	}
	if text != "" || calls != nil {
		t.Fatalf("partial results leaked: text=%q calls=%v", text, calls)
	}
}
