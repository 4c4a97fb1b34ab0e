package lang

import (
	"context"
	"io"
	"strings"
	"testing"
)

func benchmarkSource(blocks int) string {
	var sb strings.Builder

	for range blocks {
		sb.WriteString("%IF [<A> AND [NOT <B>]]:\n    enabled <A>\n%ELSE:\n    disabled\n%END\n")
		sb.WriteString("%SWITCH [<C>]:\n    %CASE [(x)]:\n        x\n    %END\n    %CASE [(y)]:\n        y\n    %END\n%END\n")
		sb.WriteString("plain content line\n")
	}

	return sb.String()
}

func BenchmarkPreprocess(b *testing.B) {
	ctx := context.Background()
	source := benchmarkSource(100)
	vars := Context{Local: map[string]string{"A": "TRUE", "B": "FALSE", "C": "y"}}

	b.SetBytes(int64(len(source)))
	b.ReportAllocs()

	for b.Loop() {
		if _, err := Preprocess(ctx, source, vars, WithPrintSink(io.Discard)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	ctx := context.Background()
	source := benchmarkSource(100)

	b.SetBytes(int64(len(source)))

	for b.Loop() {
		if _, err := Tokenize(ctx, source); err != nil {
			b.Fatal(err)
		}
	}
}
