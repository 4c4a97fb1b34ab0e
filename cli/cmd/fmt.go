package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/tpp/lang"
	"github.com/ardnew/tpp/log"
)

// Fmt rewrites templates with canonical directive layout.
type Fmt struct {
	Indent int  `default:"4" help:"Indent width of nested directives." short:"i"`
	Write  bool `            help:"Write the result back to each source file instead of stdout." short:"w"`

	Sources []string `arg:"" default:"-" help:"Template files or '-' for stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	for _, src := range uniqueSources(f.Sources) {
		text, err := f.format(ctx, src)
		if err != nil {
			return err
		}

		dst := stdinSource
		if f.Write {
			dst = src
		}

		if err := writeOutput(ctx, dst, text); err != nil {
			return err
		}

		log.DebugContext(ctx, "formatted",
			slog.String("source", src),
			slog.Bool("write", f.Write && src != stdinSource))
	}

	return nil
}

func (f *Fmt) format(ctx context.Context, src string) (string, error) {
	name, source, err := readSource(src)
	if err != nil {
		return "", err
	}

	opts := []lang.Option{lang.WithLogger(log.Default()), lang.WithFile(name)}

	tokens, err := lang.Tokenize(ctx, source, opts...)
	if err != nil {
		return "", err
	}

	root, err := lang.Parse(ctx, tokens, opts...)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	if err := lang.Format(&sb, root, f.Indent); err != nil {
		return "", err
	}

	return sb.String(), nil
}
