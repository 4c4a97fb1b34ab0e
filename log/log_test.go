package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"  error ", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":  FormatJSON,
		"JSON ": FormatJSON,
		"text":  FormatText,
		"xml":   DefaultFormat,
	}

	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevels(t *testing.T) {
	var names []string
	for n := range Levels() {
		names = append(names, n)
	}

	if got := strings.Join(names, ","); got != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %s", got)
	}
}

func TestZeroLogger(t *testing.T) {
	var l Logger

	l.Error("nothing happens")
	l.TraceContext(context.Background(), "nothing happens")

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}

	if got := l.With(slog.String("k", "v")); got.Logger != nil {
		t.Error("With on zero logger returned a live logger")
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf,
		WithFormat(FormatJSON),
		WithLevel(LevelTrace),
		WithTimeLayout("none"),
	)

	l.With(slog.String("stage", "lex")).Trace("lex complete", slog.Int("tokens", 12))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}

	if rec["msg"] != "lex complete" || rec["stage"] != "lex" || rec["tokens"] != float64(12) {
		t.Errorf("unexpected record %v", rec)
	}

	if _, ok := rec["time"]; ok {
		t.Error("time attribute present with layout none")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelWarn), WithPretty(false))
	l.Info("hidden")
	l.Debug("hidden")

	if buf.Len() != 0 {
		t.Errorf("messages below level were written: %q", buf.String())
	}

	l.Warn("shown")

	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn message missing: %q", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var a, b bytes.Buffer

	l := Make(&a, WithLevel(LevelError))
	w := l.Wrap(WithOutput(&b), WithLevel(LevelDebug))

	if l.Level() != LevelError || w.Level() != LevelDebug {
		t.Fatalf("levels = %v, %v", l.Level(), w.Level())
	}

	w.Debug("to b")

	if a.Len() != 0 || !strings.Contains(b.String(), "to b") {
		t.Errorf("a=%q b=%q", a.String(), b.String())
	}
}

type valuer struct{}

func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("msg", "boom"), slog.Int("line", 3))
}

func TestPretty_Group(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithPretty(true), WithTimeLayout(""), WithLevel(LevelDebug))
	l.Error("run failed", slog.Any("error", valuer{}), slog.Bool("ok", false))

	out := buf.String()
	for _, want := range []string{"ERROR", "run failed", "error.msg=", "boom", "error.line=", "3", "ok=", "false"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}

	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected exactly one line, got %q", out)
	}
}

func TestPretty_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithTimeLayout("none"))
	h := l.Handler().WithAttrs([]slog.Attr{slog.String("file", "a.tpp")}).WithGroup("pos")
	slog.New(h).Warn("stray token", "line", 2)

	out := buf.String()
	if !strings.Contains(out, "file=") || !strings.Contains(out, "pos.line=") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestPackageDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = original
		defaultMu.Unlock()
	})

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithFormat(FormatJSON), WithLevel(LevelDebug))

	tests := []struct {
		fn    func(string, ...slog.Attr)
		level string
	}{
		{Debug, "DEBUG"},
		{Info, "INFO"},
		{Warn, "WARN"},
		{Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.Any("error", errors.New("x")))

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.level+`"`) || !strings.Contains(out, `"error":"x"`) {
				t.Errorf("unexpected output %q", out)
			}
		})
	}
}
