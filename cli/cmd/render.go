package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/tpp/lang"
	"github.com/ardnew/tpp/log"
)

// Print sinks selectable with --print-to.
const (
	printStdout  = "stdout"
	printStderr  = "stderr"
	printDiscard = "discard"
)

// Render preprocesses a template and writes the result.
type Render struct {
	Vars `embed:""`

	Output   string `default:"-"      help:"Output file or '-' for stdout."                             placeholder:"FILE" short:"o" type:"path"`
	PrintTo  string `default:"stdout" enum:"stdout,stderr,discard"         help:"Destination of %PRINT output."`
	MaxDepth int    `default:"256"    help:"Maximum nesting of statements and expressions."`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	name, source, err := readSource(r.Source)
	if err != nil {
		return err
	}

	vars, err := r.Context(ctx)
	if err != nil {
		return err
	}

	out, err := lang.Preprocess(ctx, source, vars,
		lang.WithLogger(log.Default()),
		lang.WithFile(name),
		lang.WithMaxDepth(r.MaxDepth),
		lang.WithPrintSink(printSink(r.PrintTo)),
	)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "rendered",
		slog.String("source", r.Source),
		slog.Int("bytes", len(out)))

	return writeOutput(ctx, r.Output, out)
}

func printSink(name string) io.Writer {
	switch name {
	case printStderr:
		return os.Stderr
	case printDiscard:
		return io.Discard
	default:
		return os.Stdout
	}
}
