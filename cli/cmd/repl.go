package cmd

import (
	"context"

	"github.com/ardnew/tpp/cli/cmd/repl"
	"github.com/ardnew/tpp/log"
)

// REPL evaluates bracketed expressions interactively.
type REPL struct {
	Vars `embed:""`
}

// Run executes the repl command.
func (r *REPL) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	vars, err := r.Context(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, vars, kongVar(ctx, CacheIdentifier), log.Default())
}
