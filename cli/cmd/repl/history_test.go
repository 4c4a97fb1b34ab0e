package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"[<A> AND <B>]", modeEval},
		{"set A TRUE", modeCtrl},
		{"  ", modeEval},
		{"[NOT <A>]", modeEval},
		{"[NOT <A>]", modeEval},
		{"[<A> AND <B>]", modeEval},
	} {
		if _, err := h.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatalf("WriteWithMode(%q): %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"set A TRUE", modeCtrl},
		{"[NOT <A>]", modeEval},
		{"[<A> AND <B>]", modeEval},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, wantFile := string(data), "C:set A TRUE\nE:[NOT <A>]\nE:[<A> AND <B>]\n"; got != wantFile {
		t.Errorf("file = %q, want %q", got, wantFile)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %v, want %v", got, want)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if _, err := h.WriteWithMode("quit", modeCtrl); err != nil {
		t.Fatal(err)
	}

	e, err := h.GetEntry(0)
	if err != nil || e != (HistoryEntry{"quit", modeCtrl}) {
		t.Errorf("GetEntry(0) = %v, %v", e, err)
	}

	if _, err := h.GetEntry(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("GetEntry(1) error = %v, want %v", err, ErrOutOfBounds)
	}
}
