// Package persona loads named system-prompt presets that shape the
// assistant's behavior for a conversation.
package persona

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Persona is one named preset. Description is used verbatim as the content of
// a system turn.
type Persona struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Store holds the personas loaded at startup. Read-only after construction,
// so it may be shared across conversations.
type Store struct {
	personas []Persona
}

func NewStore(personas []Persona) *Store {
	return &Store{personas: personas}
}

// Load reads an ordered persona list from a YAML file.
func Load(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var personas []Persona
	if err := yaml.Unmarshal(b, &personas); err != nil {
		return nil, fmt.Errorf("invalid persona file %s: %w", path, err)
	}
	for i, p := range personas {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("invalid persona file %s: entry %d has no name", path, i)
		}
	}
	return &Store{personas: personas}, nil
}

// All returns the personas in file order.
func (s *Store) All() []Persona {
	out := make([]Persona, len(s.personas))
	copy(out, s.personas)
	return out
}

// Find performs a case-insensitive exact match. A missing persona is a
// no-match, not an error; callers treat it as a no-op.
func (s *Store) Find(name string) (Persona, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Persona{}, false
	}
	for _, p := range s.personas {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Persona{}, false
}
