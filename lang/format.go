package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Encoding selects the serialization of token and tree dumps.
type Encoding int

const (
	EncodingYAML Encoding = iota
	EncodingJSON
)

func (e Encoding) String() string {
	if e == EncodingJSON {
		return "json"
	}

	return "yaml"
}

// ParseEncoding parses "yaml" or "json". Anything else yields YAML.
func ParseEncoding(s string) Encoding {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return EncodingJSON
	}

	return EncodingYAML
}

// FormatTokens writes a dump of tokens to w.
func FormatTokens(ctx context.Context, w io.Writer, tokens []Token, enc Encoding, indent int) error {
	if tokens == nil {
		tokens = []Token{}
	}

	return encode(ctx, w, tokens, enc, indent)
}

// FormatTree writes a dump of the tree rooted at n to w.
func FormatTree(ctx context.Context, w io.Writer, n Node, enc Encoding, indent int) error {
	return encode(ctx, w, dump(n), enc, indent)
}

func encode(ctx context.Context, w io.Writer, v any, enc Encoding, indent int) error {
	var (
		data []byte
		err  error
	)

	switch enc {
	case EncodingJSON:
		if indent > 0 {
			data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(v)
		}

		data = append(data, '\n')

	default:
		var opts []yaml.EncodeOption
		if indent > 0 {
			opts = append(opts, yaml.Indent(indent))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		data, err = yaml.MarshalContext(ctx, v, opts...)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if _, err := w.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// nodeDump is the serialized form of a [Node].
type nodeDump struct {
	Type      string      `json:"type"                yaml:"type"`
	Location  string      `json:"location"            yaml:"location"`
	Text      *string     `json:"text,omitempty"      yaml:"text,omitempty"`
	Form      string      `json:"form,omitempty"      yaml:"form,omitempty"`
	Name      string      `json:"name,omitempty"      yaml:"name,omitempty"`
	Arity     string      `json:"arity,omitempty"     yaml:"arity,omitempty"`
	Value     *nodeDump   `json:"value,omitempty"     yaml:"value,omitempty"`
	LHS       *nodeDump   `json:"lhs,omitempty"       yaml:"lhs,omitempty"`
	RHS       *nodeDump   `json:"rhs,omitempty"       yaml:"rhs,omitempty"`
	Condition *nodeDump   `json:"condition,omitempty" yaml:"condition,omitempty"`
	Then      *nodeDump   `json:"then,omitempty"      yaml:"then,omitempty"`
	Else      *nodeDump   `json:"else,omitempty"      yaml:"else,omitempty"`
	Subject   *nodeDump   `json:"subject,omitempty"   yaml:"subject,omitempty"`
	Cases     []*nodeDump `json:"cases,omitempty"     yaml:"cases,omitempty"`
	Default   *nodeDump   `json:"default,omitempty"   yaml:"default,omitempty"`
	Argument  *nodeDump   `json:"argument,omitempty"  yaml:"argument,omitempty"`
	Body      *nodeDump   `json:"body,omitempty"      yaml:"body,omitempty"`
	Nodes     []*nodeDump `json:"nodes,omitempty"     yaml:"nodes,omitempty"`
}

func dump(n Node) *nodeDump {
	if isNil(n) {
		return nil
	}

	d := &nodeDump{Type: n.Type().String(), Location: n.Pos().String()}

	switch n := n.(type) {
	case *Content:
		d.Text = &n.Text
	case *Literal:
		d.Text = &n.Value
		d.Form = n.Form.String()
	case *Operator:
		d.Name, d.Arity = n.Name, n.Arity.String()
		d.LHS, d.RHS = dump(n.LHS), dump(n.RHS)
	case *Expression:
		d.Value = dump(n.Value)
	case *Conditional:
		d.Condition = dump(n.Condition)
		d.Then, d.Else = dump(n.Then), dump(n.Else)
	case *Match:
		d.Subject = dump(n.Subject)
		for _, c := range n.Cases {
			d.Cases = append(d.Cases, dump(c))
		}

		d.Default = dump(n.Default)
	case *MatchCase:
		d.Value, d.Body = dump(n.Value), dump(n.Body)
	case *Print:
		d.Argument = dump(n.Argument)
	case *Body:
		for _, c := range n.Nodes {
			d.Nodes = append(d.Nodes, dump(c))
		}
	}

	return d
}

// Format writes the tree rooted at n back as template source. Directives
// are indented by indent spaces per nesting level; content lines are
// written verbatim. Operator chains are written with explicit brackets.
func Format(w io.Writer, n Node, indent int) error {
	f := &formatter{indent: strings.Repeat(" ", max(indent, 0))}

	f.node(n, 0)

	if _, err := io.WriteString(w, f.sb.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

type formatter struct {
	sb     strings.Builder
	indent string
}

func (f *formatter) line(depth int, format string, args ...any) {
	f.sb.WriteString(strings.Repeat(f.indent, depth))
	fmt.Fprintf(&f.sb, format, args...)
	f.sb.WriteByte('\n')
}

func (f *formatter) node(n Node, depth int) {
	switch n := n.(type) {
	case *Content:
		f.sb.WriteString(n.Text)
		f.sb.WriteByte('\n')
	case *Conditional:
		f.line(depth, "%%IF %s:", Source(n.Condition))
		f.node(n.Then, depth+1)

		if n.Else != nil {
			f.line(depth, "%%ELSE:")
			f.node(n.Else, depth+1)
		}

		f.line(depth, "%%END")
	case *Match:
		f.line(depth, "%%SWITCH %s:", Source(n.Subject))

		for _, c := range n.Cases {
			f.node(c, depth+1)
		}

		if n.Default != nil {
			f.node(n.Default, depth+1)
		}

		f.line(depth, "%%END")
	case *MatchCase:
		if n.IsDefault() {
			f.line(depth, "%%DEFAULT:")
		} else {
			f.line(depth, "%%CASE %s:", Source(n.Value))
		}

		f.node(n.Body, depth+1)
		f.line(depth, "%%END")
	case *Print:
		f.line(depth, "%%PRINT %s", Source(n.Argument))
	case *Body:
		if n == nil {
			return
		}

		for _, c := range n.Nodes {
			f.node(c, depth)
		}
	}
}

// Source renders an expression node in template syntax.
func Source(n Node) string {
	switch n := n.(type) {
	case *Expression:
		if n == nil {
			return "[]"
		}

		return "[" + inner(n.Value) + "]"
	default:
		return "[" + inner(n) + "]"
	}
}

func inner(n Node) string {
	switch n := n.(type) {
	case *Literal:
		switch n.Form {
		case FormQuoted:
			return `"` + n.Value + `"`
		case FormParen:
			return "(" + n.Value + ")"
		default:
			return "<" + n.Value + ">"
		}
	case *Operator:
		if n.Arity == Unary {
			return n.Name + " " + operand(n.LHS)
		}

		return operand(n.LHS) + " " + n.Name + " " + operand(n.RHS)
	case *Expression:
		return operand(n)
	default:
		return ""
	}
}

// operand renders a literal bare and anything else in brackets.
func operand(n Node) string {
	e, ok := n.(*Expression)
	if !ok || e == nil {
		return inner(n)
	}

	if _, ok := e.Value.(*Literal); ok {
		return inner(e.Value)
	}

	return "[" + inner(e.Value) + "]"
}
