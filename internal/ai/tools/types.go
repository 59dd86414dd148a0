// Package tools holds the capability registry: the explicit, startup-time
// index of every function the model may invoke by name.
package tools

import (
	"context"
	"strings"
)

// Schema is the machine-readable descriptor exposed to the model so it can
// decide when and how to call a capability.
type Schema struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// InvokeFunc executes one capability with decoded arguments. A handled
// failure may be reported either through err or by returning an
// error-describing value; both end up in the transcript.
type InvokeFunc func(ctx context.Context, args map[string]any) (any, error)

// Capability pairs a schema with its callable.
type Capability struct {
	Schema Schema
	Invoke InvokeFunc
}

func (c Capability) Name() string {
	return strings.TrimSpace(c.Schema.Name)
}

// Source enumerates a group of related capabilities (one integration).
// Capabilities may fail as a whole (bad credentials, malformed descriptor);
// the registry skips a failing source and keeps discovering.
type Source interface {
	Name() string
	Capabilities() ([]Capability, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc struct {
	ID   string
	Load func() ([]Capability, error)
}

func (s SourceFunc) Name() string { return s.ID }

func (s SourceFunc) Capabilities() ([]Capability, error) { return s.Load() }
