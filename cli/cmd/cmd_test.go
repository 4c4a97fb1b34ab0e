package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// withStdin replaces os.Stdin with a pipe fed with input for the duration
// of the test.
func withStdin(t *testing.T, input string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdin
	os.Stdin = r

	t.Cleanup(func() {
		os.Stdin = old
		r.Close()
	})

	go func() {
		defer w.Close()
		io.WriteString(w, input)
	}()
}

// captureStdout returns everything fn writes to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdout
	os.Stdout = w

	done := make(chan string)

	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	defer func() { os.Stdout = old }()

	fn()
	w.Close()

	return <-done
}

func TestUniqueSources(t *testing.T) {
	dir := t.TempDir()
	a := writeTemp(t, dir, "a.tpp", "a")
	b := writeTemp(t, dir, "b.tpp", "b")
	missing := filepath.Join(dir, "missing.tpp")

	link := filepath.Join(dir, "link.tpp")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(wd, b)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		want  []string
	}{
		{name: "empty", paths: nil, want: []string{}},
		{name: "distinct", paths: []string{a, b}, want: []string{a, b}},
		{name: "repeated", paths: []string{a, b, a}, want: []string{a, b}},
		{name: "symlink", paths: []string{a, link}, want: []string{a}},
		{name: "relative and absolute", paths: []string{b, rel}, want: []string{b}},
		{name: "stdin last", paths: []string{"-", a}, want: []string{a, "-"}},
		{name: "stdin collapsed", paths: []string{"-", a, "-"}, want: []string{a, "-"}},
		{name: "missing kept", paths: []string{missing, a, missing}, want: []string{missing, a, missing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := uniqueSources(tt.paths)
			if !slices.Equal(got, tt.want) {
				t.Errorf("uniqueSources(%q) = %q, want %q", tt.paths, got, tt.want)
			}
		})
	}
}

func TestMakeFileKey_Nil(t *testing.T) {
	if _, ok := makeFileKey(nil); ok {
		t.Error("makeFileKey(nil) reported ok")
	}
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "in.tpp", "from file\n")

	name, text, err := readSource(path)
	if err != nil {
		t.Fatal(err)
	}

	if name != path || text != "from file\n" {
		t.Errorf("readSource(file) = (%q, %q)", name, text)
	}

	withStdin(t, "from stdin\n")

	name, text, err = readSource("-")
	if err != nil {
		t.Fatal(err)
	}

	if name != "" || text != "from stdin\n" {
		t.Errorf("readSource(-) = (%q, %q)", name, text)
	}

	if _, _, err := readSource(filepath.Join(dir, "missing")); err == nil {
		t.Error("readSource(missing) succeeded")
	}
}

func TestWriteOutput(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := writeOutput(ctx, path, "first\n"); err != nil {
		t.Fatal(err)
	}

	// Backdate the file so that a rewrite would be visible.
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	if err := writeOutput(ctx, path, "first\n"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if !info.ModTime().Equal(past) {
		t.Errorf("unchanged output was rewritten: mtime %v, want %v", info.ModTime(), past)
	}

	if err := writeOutput(ctx, path, "second\n"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "second\n" {
		t.Errorf("content = %q, want %q", data, "second\n")
	}

	got := captureStdout(t, func() {
		if err := writeOutput(ctx, "-", "to stdout"); err != nil {
			t.Error(err)
		}
	})

	if got != "to stdout" {
		t.Errorf("stdout = %q, want %q", got, "to stdout")
	}

	err = writeOutput(ctx, filepath.Join(dir, "no", "such", "dir"), "x")
	if !errors.Is(err, ErrWriteOutput) {
		t.Errorf("writeOutput(bad path) = %v, want %v", err, ErrWriteOutput)
	}
}

func TestKongVar_NoContext(t *testing.T) {
	if got := kongVar(context.Background(), ConfigIdentifier); got != "" {
		t.Errorf("kongVar = %q, want empty", got)
	}
}
