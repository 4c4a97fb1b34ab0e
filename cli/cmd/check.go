package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/tpp/lang"
	"github.com/ardnew/tpp/log"
)

// Check lexes and parses templates without evaluating them.
type Check struct {
	MaxDepth int `default:"256" help:"Maximum nesting of statements and expressions."`

	Sources []string `arg:"" default:"-" help:"Template files or '-' for stdin." name:"source"`
}

// Run executes the check command. Every source is checked; the returned
// error joins the failures.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var errs []error

	for _, src := range uniqueSources(c.Sources) {
		if err := c.check(ctx, src); err != nil {
			log.ErrorContext(ctx, "check failed",
				slog.String("source", src),
				slog.Any("error", err))

			errs = append(errs, err)

			continue
		}

		log.InfoContext(ctx, "check passed", slog.String("source", src))
	}

	if len(errs) > 0 {
		return ErrInvalid.
			With(slog.Int("failed", len(errs))).
			Wrap(errors.Join(errs...))
	}

	return nil
}

func (c *Check) check(ctx context.Context, src string) error {
	name, source, err := readSource(src)
	if err != nil {
		return err
	}

	opts := []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithFile(name),
		lang.WithMaxDepth(c.MaxDepth),
	}

	tokens, err := lang.Tokenize(ctx, source, opts...)
	if err != nil {
		return err
	}

	_, err = lang.Parse(ctx, tokens, opts...)

	return err
}
