package lang

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Context holds the variables visible to a template. Names resolve
// against Local first, then Environment. Either map may be nil.
type Context struct {
	Local       map[string]string `json:"local"       yaml:"local"`
	Environment map[string]string `json:"environment" yaml:"environment"`
}

// Lookup resolves name against the local then the environment variables.
func (c Context) Lookup(name string) (string, bool) {
	if v, ok := c.Local[name]; ok {
		return v, true
	}

	v, ok := c.Environment[name]

	return v, ok
}

// Interpret walks root and returns the generated text. %PRINT output goes
// to the sink configured with [WithPrintSink]. No text is returned on
// error.
func Interpret(ctx context.Context, root Node, vars Context, opts ...Option) (string, error) {
	cfg := makeConfig(opts...)

	in := &interpreter{vars: vars, sink: cfg.sink}

	if err := in.traverse(root); err != nil {
		return "", located(err, cfg.file)
	}

	cfg.logger.TraceContext(ctx, "interpret complete",
		slog.Int("bytes", in.out.Len()),
		slog.Int("prints", in.prints))

	return in.out.String(), nil
}

// Evaluate computes the value of an expression: TRUE or FALSE for
// operators, the resolved text for literals.
func Evaluate(e Node, vars Context) (string, error) {
	in := &interpreter{vars: vars, sink: io.Discard}

	return in.evaluate(e)
}

type interpreter struct {
	sink   io.Writer
	vars   Context
	out    strings.Builder
	prints int
}

func (in *interpreter) traverse(n Node) error {
	switch n := n.(type) {
	case *Content:
		in.out.WriteString(n.Text)

		if !endsWithOneNewline(n.Text) {
			in.out.WriteByte('\n')
		}

	case *Conditional:
		cond, err := in.evaluate(n.Condition)
		if err != nil {
			return err
		}

		switch {
		case cond == True && n.Then != nil:
			return in.traverse(n.Then)
		case cond != True && n.Else != nil:
			return in.traverse(n.Else)
		}

	case *Match:
		subject, err := in.evaluate(n.Subject)
		if err != nil {
			return err
		}

		for _, c := range n.Cases {
			v, err := in.evaluate(c.Value)
			if err != nil {
				return err
			}

			if v == subject {
				return in.traverse(c)
			}
		}

		if n.Default != nil {
			return in.traverse(n.Default)
		}

	case *MatchCase:
		if n.Body != nil {
			return in.traverse(n.Body)
		}

	case *Print:
		v, err := in.evaluate(n.Argument)
		if err != nil {
			return err
		}

		if _, err := io.WriteString(in.sink, v+"\n"); err != nil {
			return ErrWriteOutput.Wrap(err).At(n.Location)
		}

		in.prints++

	case *Body:
		for _, child := range n.Nodes {
			if err := in.traverse(child); err != nil {
				return err
			}
		}

	case nil:
		return ErrUnexpectedNode.Describe("nil node")

	default:
		return ErrUnexpectedNode.At(n.Pos()).
			Describe("%s node cannot appear in a body", n.Type())
	}

	return nil
}

func endsWithOneNewline(s string) bool {
	return strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, "\n\n")
}

func (in *interpreter) evaluate(n Node) (string, error) {
	switch n := n.(type) {
	case *Expression:
		if n == nil || n.Value == nil {
			return "", ErrMissingOperand.Describe("empty expression")
		}

		return in.evaluate(n.Value)

	case *Literal:
		return in.resolve(n)

	case *Operator:
		return in.apply(n)

	case nil:
		return "", ErrMissingOperand.Describe("nil operand")

	default:
		return "", ErrUnexpectedNode.At(n.Pos()).
			Describe("%s node is not an expression", n.Type())
	}
}

func (in *interpreter) apply(op *Operator) (string, error) {
	o, ok := operators[op.Name]
	if !ok {
		return "", ErrUnknownOperator.At(op.Location).Describe("%q", op.Name)
	}

	if op.Arity != o.arity {
		return "", ErrInvalidArity.At(op.Location).
			Describe("%s is %s but was given as %s", op.Name, o.arity, op.Arity)
	}

	if op.LHS == nil {
		return "", ErrMissingOperand.At(op.Location).
			Describe("%s has no operand", op.Name)
	}

	lhs, err := in.evaluate(op.LHS)
	if err != nil {
		return "", err
	}

	if o.arity == Unary {
		b, err := decay(lhs)
		if err != nil {
			return "", WrapError(err).At(op.LHS.Pos())
		}

		return in.run(op, o, "", "", b)
	}

	if op.RHS == nil {
		return "", ErrMissingOperand.At(op.Location).
			Describe("%s is binary but has only a left-hand operand", op.Name)
	}

	rhs, err := in.evaluate(op.RHS)
	if err != nil {
		return "", err
	}

	return in.run(op, o, lhs, rhs, false)
}

func (in *interpreter) run(op *Operator, o operator, lhs, rhs string, value bool) (string, error) {
	v, err := o.run(lhs, rhs, value)
	if err != nil {
		return "", ErrOperatorFailed.Wrap(err).At(op.Location).
			With(slog.String("operator", op.Name))
	}

	return v, nil
}
