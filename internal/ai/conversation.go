package ai

import "github.com/google/uuid"

// Conversation is the append-only transcript for one session. It is the
// single source of truth sent to the model on every request. No turn is ever
// mutated or removed once appended.
//
// A Conversation has no locking of its own: one SendMessage call owns it
// exclusively for its whole multi-round lifetime.
type Conversation struct {
	id   string
	msgs []Message
}

func NewConversation() *Conversation {
	return &Conversation{id: uuid.NewString()}
}

func (c *Conversation) ID() string { return c.id }

// Append adds one message to the end of the log.
func (c *Conversation) Append(msg Message) {
	c.msgs = append(c.msgs, msg)
}

// Snapshot returns a copy of the full ordered transcript.
func (c *Conversation) Snapshot() []Message {
	out := make([]Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}

func (c *Conversation) Len() int { return len(c.msgs) }
