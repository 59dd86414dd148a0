package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func noopInvoke(ctx context.Context, args map[string]any) (any, error) {
	return "ok", nil
}

func fakeSource(id string, names ...string) Source {
	caps := make([]Capability, 0, len(names))
	for _, n := range names {
		caps = append(caps, Capability{Schema: Schema{Name: n}, Invoke: noopInvoke})
	}
	return SourceFunc{ID: id, Load: func() ([]Capability, error) { return caps, nil }}
}

func TestRegister_DuplicateNameFails(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	if err := r.Register(Capability{Schema: Schema{Name: "pause_playback"}, Invoke: noopInvoke}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	err := r.Register(Capability{Schema: Schema{Name: "pause_playback"}, Invoke: noopInvoke})
	if err == nil {
		t.Fatal("duplicate Register succeeded, want error")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("duplicate Register error = %q, want mention of already registered", err)
	}
}

func TestRegister_RejectsEmptyNameAndNilInvoke(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	if err := r.Register(Capability{Schema: Schema{Name: "  "}, Invoke: noopInvoke}); err == nil {
		t.Fatal("empty name accepted")
	}
	if err := r.Register(Capability{Schema: Schema{Name: "x"}}); err == nil {
		t.Fatal("nil invoke accepted")
	}
}

func TestRegisterAll_SkipsFailingSource(t *testing.T) {
	t.Parallel()

	broken := SourceFunc{ID: "broken", Load: func() ([]Capability, error) {
		return nil, errors.New("bad descriptor")
	}}
	r := NewRegistry(nil)
	if err := r.RegisterAll([]Source{broken, fakeSource("music", "start_playback", "pause_playback")}); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("registered %d capabilities, want 2", r.Len())
	}
	if _, ok := r.Lookup("start_playback"); !ok {
		t.Fatal("start_playback not registered after earlier source failed")
	}
}

func TestRegisterAll_DiscoveryIsIdempotent(t *testing.T) {
	t.Parallel()

	sources := []Source{
		fakeSource("music", "start_playback", "pause_playback"),
		fakeSource("tasks", "get_task_lists"),
	}

	first := NewRegistry(nil)
	second := NewRegistry(nil)
	if err := first.RegisterAll(sources); err != nil {
		t.Fatalf("first RegisterAll: %v", err)
	}
	if err := second.RegisterAll(sources); err != nil {
		t.Fatalf("second RegisterAll: %v", err)
	}

	a, b := first.Schemas(), second.Schemas()
	if len(a) != len(b) {
		t.Fatalf("schema counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Fatalf("schema[%d] name %q vs %q", i, a[i].Name, b[i].Name)
		}
	}
}

func TestSchemas_PreserveRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	names := []string{"c_tool", "a_tool", "b_tool"}
	for _, n := range names {
		if err := r.Register(Capability{Schema: Schema{Name: n}, Invoke: noopInvoke}); err != nil {
			t.Fatalf("Register %q: %v", n, err)
		}
	}
	got := r.Schemas()
	for i, n := range names {
		if got[i].Name != n {
			t.Fatalf("Schemas()[%d] = %q, want %q", i, got[i].Name, n)
		}
	}
}
