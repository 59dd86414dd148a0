package tools

import (
	"fmt"
	"log/slog"
	"strings"
)

// Registry is the process-wide capability index. It is populated once at
// startup and read-only afterwards, so it may be shared across conversations
// without locking.
type Registry struct {
	log    *slog.Logger
	byName map[string]Capability
	order  []string
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:    log,
		byName: make(map[string]Capability),
	}
}

// Register adds one capability. Duplicate names fail loudly rather than
// silently overwriting an earlier registration.
func (r *Registry) Register(c Capability) error {
	name := c.Name()
	if name == "" {
		return fmt.Errorf("capability has empty name")
	}
	if c.Invoke == nil {
		return fmt.Errorf("capability %q has nil invoke", name)
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("capability %q already registered", name)
	}
	r.byName[name] = c
	r.order = append(r.order, name)
	return nil
}

// RegisterAll discovers every capability from the given sources. A source
// whose enumeration fails is skipped with a warning and never aborts
// discovery of the remaining sources. Duplicate names across sources are a
// hard error.
func (r *Registry) RegisterAll(sources []Source) error {
	for _, src := range sources {
		if src == nil {
			continue
		}
		caps, err := src.Capabilities()
		if err != nil {
			if r.log != nil {
				r.log.Warn("tool source failed to load, skipping",
					"source", src.Name(),
					"error", err,
				)
			}
			continue
		}
		for _, c := range caps {
			if err := r.Register(c); err != nil {
				return fmt.Errorf("source %q: %w", src.Name(), err)
			}
		}
		if r.log != nil {
			r.log.Debug("tool source registered", "source", src.Name(), "capabilities", len(caps))
		}
	}
	return nil
}

// Lookup resolves a function name to its capability.
func (r *Registry) Lookup(name string) (Capability, bool) {
	c, ok := r.byName[strings.TrimSpace(name)]
	return c, ok
}

// Schemas returns all descriptors in registration order, for transmission to
// the model alongside every request.
func (r *Registry) Schemas() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Schema)
	}
	return out
}

func (r *Registry) Len() int { return len(r.order) }
