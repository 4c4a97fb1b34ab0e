package cmd

import (
	"context"
	"os"

	"github.com/ardnew/tpp/lang"
	"github.com/ardnew/tpp/log"
)

// DumpFlags are shared by the commands that dump a template's structure.
type DumpFlags struct {
	Encoding string `default:"yaml" enum:"yaml,json" help:"Output encoding."                     short:"e"`
	Indent   int    `default:"2"                      help:"Indent width; 0 selects flow style." short:"i"`

	Source string `arg:"" default:"-" help:"Template file or '-' for stdin." name:"source"`
}

func (d *DumpFlags) tokens(ctx context.Context) ([]lang.Token, []lang.Option, error) {
	name, source, err := readSource(d.Source)
	if err != nil {
		return nil, nil, err
	}

	opts := []lang.Option{lang.WithLogger(log.Default()), lang.WithFile(name)}

	tokens, err := lang.Tokenize(ctx, source, opts...)
	if err != nil {
		return nil, nil, err
	}

	return tokens, opts, nil
}

// Tokens prints the token stream of a template.
type Tokens struct {
	DumpFlags `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	tokens, _, err := t.tokens(ctx)
	if err != nil {
		return err
	}

	return lang.FormatTokens(ctx, os.Stdout, tokens,
		lang.ParseEncoding(t.Encoding), t.Indent)
}

// AST prints the syntax tree of a template.
type AST struct {
	DumpFlags `embed:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	tokens, opts, err := a.tokens(ctx)
	if err != nil {
		return err
	}

	root, err := lang.Parse(ctx, tokens, opts...)
	if err != nil {
		return err
	}

	return lang.FormatTree(ctx, os.Stdout, root,
		lang.ParseEncoding(a.Encoding), a.Indent)
}
