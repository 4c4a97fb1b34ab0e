package lang

import "strconv"

// Type identifies the variant of a [Node].
type Type int

const (
	TypeContent Type = iota
	TypeLiteral
	TypeOperator
	TypeExpression
	TypeConditional
	TypeMatch
	TypeMatchCase
	TypePrint
	TypeBody
)

func (t Type) String() string {
	switch t {
	case TypeContent:
		return "content"
	case TypeLiteral:
		return "literal"
	case TypeOperator:
		return "operator"
	case TypeExpression:
		return "expression"
	case TypeConditional:
		return "conditional"
	case TypeMatch:
		return "match"
	case TypeMatchCase:
		return "match-case"
	case TypePrint:
		return "print"
	case TypeBody:
		return "body"
	default:
		return "type(" + strconv.Itoa(int(t)) + ")"
	}
}

// Node is a template syntax tree node. The set of implementations is
// closed: [Content], [Literal], [Operator], [Expression], [Conditional],
// [Match], [MatchCase], [Print] and [Body].
type Node interface {
	Type() Type
	Pos() Location
	node()
}

// Form is the delimiter style a [Literal] was written in.
type Form int

const (
	FormAngle  Form = iota // <payload>
	FormParen              // (payload)
	FormQuoted             // "payload"
)

func (f Form) String() string {
	switch f {
	case FormAngle:
		return "angle"
	case FormParen:
		return "paren"
	case FormQuoted:
		return "quoted"
	default:
		return "form(" + strconv.Itoa(int(f)) + ")"
	}
}

// Content is one line of output text.
type Content struct {
	Text     string
	Location Location
}

// Literal is an operand. Value excludes the delimiters.
type Literal struct {
	Value    string
	Location Location
	Form     Form
}

// Operator applies a named operator to one (unary) or two (binary)
// operands.
type Operator struct {
	LHS      Node
	RHS      Node
	Name     string
	Location Location
	Arity    Arity
}

// Expression wraps an [Operator], a [Literal] or another Expression.
type Expression struct {
	Value    Node
	Location Location
}

// Conditional is %IF with an optional %ELSE.
type Conditional struct {
	Condition *Expression
	Then      *Body
	Else      *Body
	Location  Location
}

// Match is %SWITCH. Cases are tried in order; Default runs when none
// matches.
type Match struct {
	Subject  *Expression
	Default  *MatchCase
	Cases    []*MatchCase
	Location Location
}

// MatchCase is %CASE, or %DEFAULT when Value is nil.
type MatchCase struct {
	Value    *Expression
	Body     *Body
	Location Location
}

// IsDefault reports whether c is the %DEFAULT case.
func (c *MatchCase) IsDefault() bool { return c.Value == nil }

// Print is %PRINT.
type Print struct {
	Argument *Expression
	Location Location
}

// Body is an ordered list of sibling statements and content.
type Body struct {
	Nodes    []Node
	Location Location
}

func (*Content) Type() Type     { return TypeContent }
func (*Literal) Type() Type     { return TypeLiteral }
func (*Operator) Type() Type    { return TypeOperator }
func (*Expression) Type() Type  { return TypeExpression }
func (*Conditional) Type() Type { return TypeConditional }
func (*Match) Type() Type       { return TypeMatch }
func (*MatchCase) Type() Type   { return TypeMatchCase }
func (*Print) Type() Type       { return TypePrint }
func (*Body) Type() Type        { return TypeBody }

func (n *Content) Pos() Location     { return n.Location }
func (n *Literal) Pos() Location     { return n.Location }
func (n *Operator) Pos() Location    { return n.Location }
func (n *Expression) Pos() Location  { return n.Location }
func (n *Conditional) Pos() Location { return n.Location }
func (n *Match) Pos() Location       { return n.Location }
func (n *MatchCase) Pos() Location   { return n.Location }
func (n *Print) Pos() Location       { return n.Location }
func (n *Body) Pos() Location        { return n.Location }

func (*Content) node()     {}
func (*Literal) node()     {}
func (*Operator) node()    {}
func (*Expression) node()  {}
func (*Conditional) node() {}
func (*Match) node()       {}
func (*MatchCase) node()   {}
func (*Print) node()       {}
func (*Body) node()        {}

// Walk visits n and its descendants depth first, in source order, until
// visit returns false.
func Walk(n Node, visit func(Node) bool) bool {
	if n == nil || !visit(n) {
		return false
	}

	var children []Node

	switch n := n.(type) {
	case *Operator:
		children = []Node{n.LHS, n.RHS}
	case *Expression:
		children = []Node{n.Value}
	case *Conditional:
		children = []Node{n.Condition, n.Then, n.Else}
	case *Match:
		children = append(children, n.Subject)
		for _, c := range n.Cases {
			children = append(children, c)
		}

		children = append(children, n.Default)
	case *MatchCase:
		children = []Node{n.Value, n.Body}
	case *Print:
		children = []Node{n.Argument}
	case *Body:
		children = n.Nodes
	}

	for _, c := range children {
		if isNil(c) {
			continue
		}

		if !Walk(c, visit) {
			return false
		}
	}

	return true
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Expression:
		return n == nil
	case *Body:
		return n == nil
	case *MatchCase:
		return n == nil
	}

	return false
}
