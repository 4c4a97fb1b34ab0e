package profile

import (
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	p := New(WithMode("cpu"), WithDir("/tmp/prof"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Dir: "/tmp/prof", Quiet: true}
	if p != want {
		t.Errorf("New() = %+v, want %+v", p, want)
	}
}

func TestStart_Disabled(t *testing.T) {
	for _, mode := range []string{"", "bogus"} {
		t.Run("mode="+mode, func(t *testing.T) {
			stop := New(WithMode(mode), WithDir(t.TempDir()), WithQuiet(true)).Start()
			if stop == nil {
				t.Fatal("Start() returned nil")
			}

			if _, ok := stop.(ignore); !ok {
				t.Errorf("Start() = %T, want no-op", stop)
			}

			stop.Stop()
		})
	}
}

func TestModes(t *testing.T) {
	modes := Modes()
	if !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, not sorted", modes)
	}

	if len(modes) > 0 && !slices.Contains(modes, "cpu") {
		t.Errorf("Modes() = %v, missing cpu", modes)
	}
}
