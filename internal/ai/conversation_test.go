package ai

import "testing"

func TestConversation_AppendThenSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	conv := NewConversation()
	conv.Append(Message{Role: RoleUser, Content: "hi"})
	msg := Message{Role: RoleAssistant, Content: "hello"}
	conv.Append(msg)

	if conv.Len() != 2 {
		t.Fatalf("transcript length = %d, want 2", conv.Len())
	}
	snap := conv.Snapshot()
	if len(snap) != conv.Len() {
		t.Fatalf("snapshot length = %d, want %d", len(snap), conv.Len())
	}
	if got := snap[len(snap)-1]; got.Role != msg.Role || got.Content != msg.Content {
		t.Fatalf("last turn = %+v, want %+v", got, msg)
	}
}

func TestConversation_SnapshotIsACopy(t *testing.T) {
	t.Parallel()

	conv := NewConversation()
	conv.Append(Message{Role: RoleUser, Content: "original"})
	snap := conv.Snapshot()
	snap[0].Content = "mutated"
	if conv.Snapshot()[0].Content != "original" {
		t.Fatal("mutating a snapshot changed the transcript")
	}
}

func TestConversation_HasUniqueID(t *testing.T) {
	t.Parallel()

	a, b := NewConversation(), NewConversation()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Fatalf("conversation ids not unique: %q vs %q", a.ID(), b.ID())
	}
}
