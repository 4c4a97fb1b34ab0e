package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestFormat_Canonical(t *testing.T) {
	tests := []string{
		"%IF [<A> AND <B>]:\n    yes\n%ELSE:\n    no\n%END\n",
		"%SWITCH [<X>]:\n  %CASE [(1)]:\n    one\n  %END\n  %DEFAULT:\n    other\n  %END\n%END\n",
		"head\n%PRINT [\"a b\" EQUALS [NOT <<B>>]]\n\ntail\n",
	}

	for _, src := range tests {
		root, err := parse(t, src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}

		var buf bytes.Buffer
		if err := Format(&buf, root, 2); err != nil {
			t.Fatal(err)
		}

		if buf.String() != src {
			t.Errorf("Format() =\n%s\nwant\n%s", buf.String(), src)
		}
	}
}

func TestFormat_PreservesOutput(t *testing.T) {
	src := "%IF   [<A>  AND <B> OR <C>] :\n" +
		"text\n" +
		"     %SWITCH [<X>]:\n" +
		"%CASE [<a>]:\n" +
		"  a\n" +
		"%END\n" +
		"%END\n" +
		"%END\n"

	vars := Context{Local: map[string]string{"A": "TRUE", "C": "TRUE", "X": "a"}}

	want, err := Preprocess(context.Background(), src, vars)
	if err != nil {
		t.Fatal(err)
	}

	root, err := parse(t, src)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Format(&buf, root, 4); err != nil {
		t.Fatal(err)
	}

	got, err := Preprocess(context.Background(), buf.String(), vars)
	if err != nil {
		t.Fatalf("formatted source does not preprocess: %v\n%s", err, buf.String())
	}

	if got != want {
		t.Errorf("formatted output = %q, want %q", got, want)
	}

	again, err := parse(t, buf.String())
	if err != nil {
		t.Fatal(err)
	}

	var buf2 bytes.Buffer
	if err := Format(&buf2, again, 4); err != nil {
		t.Fatal(err)
	}

	if buf2.String() != buf.String() {
		t.Errorf("Format is not idempotent:\n%s\n---\n%s", buf.String(), buf2.String())
	}
}

func TestFormatTokens_JSON(t *testing.T) {
	tokens, err := Tokenize(context.Background(), "%PRINT [<A>]")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatTokens(context.Background(), &buf, tokens, EncodingJSON, 0); err != nil {
		t.Fatal(err)
	}

	var got []struct {
		Text     string
		Kind     string
		Location Location
	}

	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if len(got) != 7 || got[1].Kind != "statement" || got[1].Text != "PRINT" || got[4].Location != (Location{1, 10}) {
		t.Errorf("unexpected dump %+v", got)
	}
}

func TestFormatTree(t *testing.T) {
	root, err := parse(t, "%IF [NOT <A>]:\nx\n%END\n")
	if err != nil {
		t.Fatal(err)
	}

	var y bytes.Buffer
	if err := FormatTree(context.Background(), &y, root, EncodingYAML, 2); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"type: body", "type: conditional", "name: NOT", "arity: unary", "form: angle"} {
		if !strings.Contains(y.String(), want) {
			t.Errorf("YAML dump lacks %q:\n%s", want, y.String())
		}
	}

	var j bytes.Buffer
	if err := FormatTree(context.Background(), &j, root, EncodingJSON, 2); err != nil {
		t.Fatal(err)
	}

	if !json.Valid(j.Bytes()) || !strings.Contains(j.String(), `"type": "content"`) {
		t.Errorf("JSON dump:\n%s", j.String())
	}
}

func TestParseEncoding(t *testing.T) {
	if ParseEncoding(" JSON") != EncodingJSON || ParseEncoding("yaml") != EncodingYAML || ParseEncoding("?") != EncodingYAML {
		t.Error("ParseEncoding mismatch")
	}
}
