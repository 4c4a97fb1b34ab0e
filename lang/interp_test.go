package lang

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPreprocess(t *testing.T) {
	env := map[string]string{"ENV:TEST": "TESTING"}

	tests := []struct {
		name   string
		source string
		vars   Context
		want   string
		print  string
	}{
		{
			name:   "if true",
			source: "%IF [<TRUE>]:\n    hello!\n%END\n",
			want:   "    hello!\n",
		},
		{
			name:   "if false takes else",
			source: "%IF [<FALSE>]:\n    hello!\n%ELSE:\n    how are you?\n%END\n",
			want:   "    how are you?\n",
		},
		{
			name:   "if false without else",
			source: "before\n%IF [<FALSE>]:\n    hello!\n%END\nafter\n",
			want:   "before\nafter\n",
		},
		{
			name:   "condition must be exactly TRUE",
			source: "%IF [<1>]:\n    yes\n%ELSE:\n    no\n%END\n",
			want:   "    no\n",
		},
		{
			name: "switch",
			source: "%SWITCH [(2)]:\n" +
				"    %CASE [(1)]:\n        hello!\n    %END\n" +
				"    %CASE [(2)]:\n        how are you?\n    %END\n" +
				"%END\n",
			want: "        how are you?\n",
		},
		{
			name: "switch first match wins",
			source: "%SWITCH [<X>]:\n" +
				"%CASE [<a>]:\nfirst\n%END\n" +
				"%CASE [<a>]:\nsecond\n%END\n" +
				"%END\n",
			vars: Context{Local: map[string]string{"X": "a"}},
			want: "first\n",
		},
		{
			name: "switch falls back to default",
			source: "%SWITCH [<X>]:\n" +
				"%DEFAULT:\nfallback\n%END\n" +
				"%CASE [<a>]:\nfirst\n%END\n" +
				"%END\n",
			vars: Context{Local: map[string]string{"X": "b"}},
			want: "fallback\n",
		},
		{
			name:   "switch without match or default",
			source: "%SWITCH [<X>]:\n%CASE [<a>]:\nfirst\n%END\n%END\n",
			want:   "",
		},
		{
			name:   "quoted case is compared unquoted",
			source: "%SWITCH [<X>]:\n%CASE [\"a b\"]:\nmatched\n%END\n%END\n",
			vars:   Context{Environment: map[string]string{"X": "a b"}},
			want:   "matched\n",
		},
		{
			name:   "print goes to the sink",
			source: "%PRINT [(<ENV:TEST>)]\n",
			vars:   Context{Environment: env},
			print:  "TESTING\n",
		},
		{
			name:   "interpolation with escape",
			source: "%PRINT [(<<ENV:TEST>> is <ENV:TEST>)]\n",
			vars:   Context{Environment: env},
			print:  "<ENV:TEST> is TESTING\n",
		},
		{
			name:   "escaped marker is never looked up",
			source: "%PRINT [<<NAME>>]\n",
			vars:   Context{Local: map[string]string{"NAME": "x", "<NAME>": "y"}},
			print:  "<NAME>\n",
		},
		{
			name:   "undefined name resolves to itself",
			source: "%PRINT [<NAME>]\n%PRINT [(hello <NAME>)]\n",
			print:  "NAME\nhello NAME\n",
		},
		{
			name:   "local shadows environment",
			source: "%PRINT [<V>]\n",
			vars: Context{
				Local:       map[string]string{"V": "local"},
				Environment: map[string]string{"V": "env"},
			},
			print: "local\n",
		},
		{
			name:   "quoted literal is verbatim",
			source: "%PRINT [\"<V> V\"]\n",
			vars:   Context{Local: map[string]string{"V": "x"}},
			print:  "<V> V\n",
		},
		{
			name:   "nested boolean logic",
			source: "%IF [[[NOT <FALSE>] AND [NOT <TRUE>]] OR [<TRUE> AND [NOT <FALSE>]]]:\n    hello!\n%END\n",
			want:   "    hello!\n",
		},
		{
			name:   "equals against environment",
			source: "%IF [[[NOT <FALSE>] AND [NOT <TRUE>]] OR [<TRUE> AND [<ENV:TEST> EQUALS <TESTING>]]]:\n    hello!\n%END\n",
			vars:   Context{Environment: env},
			want:   "    hello!\n",
		},
		{
			name:   "operators",
			source: "%PRINT [<X> CONTAINS (ell)]\n%PRINT [<X> CONTAINS (xyz)]\n%PRINT [NOT <1>]\n%PRINT [NOT <0>]\n%PRINT [<1> AND <TRUE>]\n%PRINT [<FALSE> OR <TRUE>]\n%PRINT [\"\" EQUALS <E>]\n",
			vars:   Context{Local: map[string]string{"X": "hello", "E": ""}},
			print:  "TRUE\nFALSE\nFALSE\nTRUE\nFALSE\nTRUE\nTRUE\n",
		},
		{
			name:   "right associative chain",
			source: "%PRINT [<FALSE> AND <FALSE> OR <TRUE>]\n%PRINT [NOT <TRUE> OR <TRUE>]\n",
			print:  "FALSE\nFALSE\n",
		},
		{
			name:   "directive free text",
			source: "line one\n\n  indented\nno newline",
			want:   "line one\n\n  indented\nno newline\n",
		},
		{
			name:   "whitespace-only lines are dropped",
			source: "a\n    \nb\n",
			want:   "a\nb\n",
		},
		{
			name:   "nested statements",
			source: "%IF [<A>]:\n%IF [<B>]:\nboth\n%ELSE:\nonly a\n%END\n%END\n",
			vars:   Context{Local: map[string]string{"A": "TRUE", "B": "FALSE"}},
			want:   "only a\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sink bytes.Buffer

			got, err := Preprocess(context.Background(), tt.source, tt.vars, WithPrintSink(&sink))
			if err != nil {
				t.Fatalf("Preprocess() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}

			if sink.String() != tt.print {
				t.Errorf("print sink = %q, want %q", sink.String(), tt.print)
			}
		})
	}
}

func TestPreprocess_EvaluationErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
		loc    Location
	}{
		{"not of non-boolean", "%PRINT [NOT <maybe>]\n", ErrBadBooleanLiteral, Location{1, 13}},
		{"not of empty", "%PRINT [NOT \"\"]\n", ErrEmptyLiteral, Location{1, 13}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sink bytes.Buffer

			got, err := Preprocess(context.Background(), "text\n"+tt.source, Context{}, WithPrintSink(&sink))
			if !errors.Is(err, tt.want) || !errors.Is(err, ClassEvaluation) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			if got != "" || sink.Len() != 0 {
				t.Errorf("output %q / sink %q produced on error", got, sink.String())
			}

			loc, _ := WrapError(err).Location()
			if want := (Location{tt.loc.Line + 1, tt.loc.Column}); loc != want {
				t.Errorf("location = %v, want %v", loc, want)
			}
		})
	}
}

func TestInterpret_MalformedTree(t *testing.T) {
	lit := func(v string) *Expression {
		return &Expression{Value: &Literal{Value: v, Form: FormAngle}}
	}

	tests := []struct {
		name string
		root Node
		want error
	}{
		{"nil root", nil, ErrUnexpectedNode},
		{"literal in body", &Body{Nodes: []Node{&Literal{Value: "x"}}}, ErrUnexpectedNode},
		{
			"binary without rhs",
			&Print{Argument: &Expression{Value: &Operator{Name: OperatorAnd, Arity: Binary, LHS: lit("TRUE")}}},
			ErrMissingOperand,
		},
		{
			"unknown operator",
			&Print{Argument: &Expression{Value: &Operator{Name: "XOR", Arity: Binary, LHS: lit("A"), RHS: lit("B")}}},
			ErrUnknownOperator,
		},
		{
			"wrong arity",
			&Print{Argument: &Expression{Value: &Operator{Name: OperatorNot, Arity: Binary, LHS: lit("A"), RHS: lit("B")}}},
			ErrInvalidArity,
		},
		{
			"operator without operand",
			&Print{Argument: &Expression{Value: &Operator{Name: OperatorNot, Arity: Unary}}},
			ErrMissingOperand,
		},
		{
			"empty expression",
			&Conditional{Condition: &Expression{}},
			ErrMissingOperand,
		},
		{
			"content as operand",
			&Print{Argument: &Expression{Value: &Content{Text: "x"}}},
			ErrUnexpectedNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpret(context.Background(), tt.root, Context{}, WithPrintSink(nil))
			if !errors.Is(err, tt.want) {
				t.Errorf("Interpret() error = %v, want %v", err, tt.want)
			}

			if got != "" {
				t.Errorf("Interpret() = %q on error", got)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	vars := Context{Local: map[string]string{"A": "TRUE"}}

	tokens, err := Tokenize(context.Background(), "%PRINT [<A> AND [NOT <FALSE>]]")
	if err != nil {
		t.Fatal(err)
	}

	root, err := Parse(context.Background(), tokens)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Evaluate(root.Nodes[0].(*Print).Argument, vars)
	if err != nil || got != True {
		t.Errorf("Evaluate() = %q, %v, want TRUE", got, err)
	}
}

func TestContent_TrailingNewline(t *testing.T) {
	tests := map[string]string{
		"":      "\n",
		"a":     "a\n",
		"a\n":   "a\n",
		"\n":    "\n",
		"a\n\n": "a\n\n\n",
	}

	for text, want := range tests {
		got, err := Interpret(context.Background(), &Content{Text: text}, Context{})
		if err != nil || got != want {
			t.Errorf("content %q rendered %q, %v, want %q", text, got, err, want)
		}
	}
}

func TestPreprocessFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.tpp")
	if err := os.WriteFile(good, []byte("%IF [<ON>]:\non\n%END\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := PreprocessFile(context.Background(), good, Context{Local: map[string]string{"ON": "TRUE"}})
	if err != nil || got != "on\n" {
		t.Errorf("PreprocessFile() = %q, %v", got, err)
	}

	bad := filepath.Join(dir, "bad.tpp")
	if err := os.WriteFile(bad, []byte("ok\n%IF\n%END\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = PreprocessFile(context.Background(), bad, Context{})
	if !errors.Is(err, ErrMissingCondition) || !strings.HasPrefix(err.Error(), bad+":2:1: ") {
		t.Errorf("PreprocessFile() error = %v", err)
	}

	_, err = PreprocessFile(context.Background(), filepath.Join(dir, "missing.tpp"), Context{})
	if !errors.Is(err, ErrReadInput) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("PreprocessFile() error = %v, want %v", err, ErrReadInput)
	}
}

func TestPreprocessReader(t *testing.T) {
	got, err := PreprocessReader(context.Background(), strings.NewReader("a\r\nb"), Context{})
	if err != nil || got != "a\nb\n" {
		t.Errorf("PreprocessReader() = %q, %v", got, err)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestPrint_SinkFailure(t *testing.T) {
	_, err := Preprocess(context.Background(), "%PRINT [<A>]\n", Context{}, WithPrintSink(failWriter{}))
	if !errors.Is(err, ErrWriteOutput) || !errors.Is(err, ClassIO) {
		t.Errorf("error = %v, want %v", err, ErrWriteOutput)
	}
}

func TestInterpret_OperatorFailure(t *testing.T) {
	op := &Operator{Name: "COUNT", Arity: Binary, Location: Location{2, 7}}
	failing := compileOperator(Binary, `int(lhs) > 0`)

	var in interpreter

	_, err := in.run(op, failing, "not a number", "", false)
	if !errors.Is(err, ErrOperatorFailed) {
		t.Fatalf("run() error = %v, want %v", err, ErrOperatorFailed)
	}

	if !errors.Is(err, ClassEvaluation) || errors.Is(err, ClassInternal) {
		t.Errorf("error %v has class %v, want %v", err, WrapError(err).Class(), ClassEvaluation)
	}

	if loc, _ := WrapError(err).Location(); loc != op.Location {
		t.Errorf("location = %v, want %v", loc, op.Location)
	}
}
