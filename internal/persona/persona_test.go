package persona

import (
	"os"
	"path/filepath"
	"testing"
)

func writePersonaFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "personas.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write persona file: %v", err)
	}
	return path
}

func TestLoad_PreservesFileOrder(t *testing.T) {
	t.Parallel()

	path := writePersonaFile(t, `
- name: Gina
  description: You are Gina, a helpful personal assistant.
- name: DJ
  description: You are a DJ with strong opinions about music.
`)
	store, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	all := store.All()
	if len(all) != 2 {
		t.Fatalf("loaded %d personas, want 2", len(all))
	}
	if all[0].Name != "Gina" || all[1].Name != "DJ" {
		t.Fatalf("persona order = %q, %q; want Gina, DJ", all[0].Name, all[1].Name)
	}
}

func TestLoad_RejectsUnnamedEntry(t *testing.T) {
	t.Parallel()

	path := writePersonaFile(t, `
- description: nameless
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted a persona without a name")
	}
}

func TestFind_CaseInsensitiveExactMatch(t *testing.T) {
	t.Parallel()

	store := NewStore([]Persona{{Name: "Gina", Description: "desc"}})
	if _, ok := store.Find("gINA"); !ok {
		t.Fatal("Find(gINA) missed")
	}
	if _, ok := store.Find("Gin"); ok {
		t.Fatal("Find(Gin) matched a prefix, want exact match only")
	}
	if _, ok := store.Find("Nonexistent"); ok {
		t.Fatal("Find(Nonexistent) matched")
	}
	if _, ok := store.Find(""); ok {
		t.Fatal("Find empty name matched")
	}
}
