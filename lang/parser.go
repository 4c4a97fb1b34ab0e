package lang

import (
	"context"
	"log/slog"
	"strings"
)

// Parse builds the syntax tree of a token stream produced by [Tokenize].
func Parse(ctx context.Context, tokens []Token, opts ...Option) (*Body, error) {
	cfg := makeConfig(opts...)

	p := &parser{tokens: tokens, maxDepth: int64(cfg.maxDepth)}

	root, err := p.parseBody(scope{who: whoNone, at: Location{Line: 1, Column: 1}})
	if err != nil {
		return nil, located(err, cfg.file)
	}

	nodes := 0
	Walk(root, func(Node) bool { nodes++; return true })

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("tokens", len(tokens)),
		slog.Int("nodes", nodes))

	return root, nil
}

// ParseExpression parses tokens holding exactly one bracketed expression,
// such as the stream [Tokenize] produces for "[<A> AND <B>]".
func ParseExpression(ctx context.Context, tokens []Token, opts ...Option) (*Expression, error) {
	cfg := makeConfig(opts...)

	p := &parser{tokens: tokens, maxDepth: int64(cfg.maxDepth)}

	tok, ok := p.peek()
	if !ok || tok.Kind != KindLeftBracket {
		found, loc := p.found()

		return nil, located(ErrExpectedExpression.At(loc).
			Describe("expected %q but found %s", "[", found), cfg.file)
	}

	s := scope{who: whoNone, at: tok.Location}

	e, err := p.parseExpression(s.enter(whoExpression, tok.Location))
	if err != nil {
		return nil, located(err, cfg.file)
	}

	if _, ok := p.peek(); ok {
		found, loc := p.found()

		return nil, located(ErrStrayToken.At(loc).
			Describe("unexpected %s after expression", found), cfg.file)
	}

	cfg.logger.TraceContext(ctx, "parse expression complete",
		slog.Int("tokens", len(tokens)))

	return e, nil
}

// who names the construct a scope belongs to.
type who int

const (
	whoNone who = iota
	whoIf
	whoElse
	whoSwitch
	whoCase
	whoPrint
	whoExpression
)

// scope is threaded through the recursive descent to decide which
// construct owns an upcoming %END, %ELSE, %CASE or %DEFAULT. parent and
// child are nesting depths; child > parent means an enclosing construct
// is waiting for a closing keyword, so the body parser yields to it
// instead of consuming the keyword.
type scope struct {
	parent int64
	child  int64
	who    who
	at     Location // the opening token of the construct
}

func (s scope) enter(w who, at Location) scope {
	return scope{parent: s.child, child: s.child + 1, who: w, at: at}
}

func (s scope) nested() bool { return s.child > s.parent }

type parser struct {
	tokens   []Token
	pos      int
	maxDepth int64
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}

	return p.tokens[p.pos], true
}

func (p *parser) take() (Token, error) {
	tok, ok := p.peek()
	if !ok {
		return Token{}, ErrEndOfFile.At(p.endLocation())
	}

	p.pos++

	return tok, nil
}

// endLocation is where diagnostics about running out of tokens point: the
// last token, if any.
func (p *parser) endLocation() Location {
	if len(p.tokens) == 0 {
		return Location{}
	}

	return p.tokens[len(p.tokens)-1].Location
}

// found describes the next token, or the end of input, for diagnostics.
func (p *parser) found() (string, Location) {
	tok, ok := p.peek()
	if !ok {
		return "end of input", p.endLocation()
	}

	if tok.Kind == KindPercent && p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1].describe(), tok.Location
	}

	return tok.describe(), tok.Location
}

// keyword returns the statement keyword following a '%' at the cursor.
func (p *parser) keyword() string {
	if p.pos+1 >= len(p.tokens) || !p.tokens[p.pos].Is(KindPercent) ||
		!p.tokens[p.pos+1].Is(KindStatement) {
		return ""
	}

	return p.tokens[p.pos+1].Text
}

func (p *parser) atStatement(keyword string) bool {
	return p.keyword() == keyword
}

func (p *parser) guard(s scope) error {
	if s.child > p.maxDepth {
		return ErrMaxDepthExceeded.At(s.at).
			Describe("nesting deeper than %d", p.maxDepth)
	}

	return nil
}

func (p *parser) parseBody(s scope) (*Body, error) {
	if err := p.guard(s); err != nil {
		return nil, err
	}

	body := &Body{Location: s.at}

	for {
		tok, ok := p.peek()
		if !ok {
			return body, nil
		}

		switch tok.Kind {
		case KindContent:
			p.pos++
			body.Nodes = append(body.Nodes, &Content{Text: tok.Text, Location: tok.Location})

			continue

		case KindPercent:
		default:
			return nil, ErrStrayToken.At(tok.Location).
				Describe("unexpected %s", tok.describe())
		}

		switch kw := p.keyword(); kw {
		case KeywordEnd:
			if s.nested() {
				return body, nil
			}

			return nil, ErrStrayToken.At(tok.Location).
				Describe("%%END without an open statement")

		case KeywordElse:
			if s.who == whoIf && s.nested() {
				return body, nil
			}

			return nil, ErrStrayToken.At(tok.Location).
				Describe("%%ELSE outside of an %%IF body")

		case KeywordCase, KeywordDefault:
			if s.who == whoCase {
				return nil, ErrMissingEnd.At(s.at).
					Describe("case body is not closed before %%%s at %s", kw, tok.Location)
			}

			return nil, ErrStrayToken.At(tok.Location).
				Describe("%%%s outside of a %%SWITCH", kw)

		case KeywordIf, KeywordSwitch, KeywordPrint:
			p.pos += 2

			var (
				n   Node
				err error
			)

			switch kw {
			case KeywordIf:
				n, err = p.parseIf(s.enter(whoIf, tok.Location))
			case KeywordSwitch:
				n, err = p.parseSwitch(s.enter(whoSwitch, tok.Location))
			default:
				n, err = p.parsePrint(s.enter(whoPrint, tok.Location))
			}

			if err != nil {
				return nil, err
			}

			body.Nodes = append(body.Nodes, n)

		default:
			return nil, ErrUnexpectedToken.At(tok.Location).
				Describe("expected a statement keyword after %q", "%")
		}
	}
}

// parseCondition parses the bracketed expression following a statement
// keyword.
func (p *parser) parseCondition(s scope, keyword string) (*Expression, error) {
	if err := p.guard(s); err != nil {
		return nil, err
	}

	tok, ok := p.peek()

	switch {
	case !ok:
		return nil, ErrMissingCondition.At(s.at).
			Describe("%%%s statement has no expression", keyword)

	case tok.Kind == KindLeftBracket:
		return p.parseExpression(s.enter(whoExpression, tok.Location))

	case tok.Kind == KindPercent:
		switch p.keyword() {
		case KeywordEnd, KeywordElse, KeywordCase, KeywordDefault:
			return nil, ErrMissingCondition.At(s.at).
				Describe("%%%s statement has no expression", keyword)
		}

		return nil, ErrExpectedExpression.At(s.at).
			Describe("%%%s expects an expression but got a statement", keyword)

	case tok.Kind == KindContent:
		return nil, ErrExpectedExpression.At(s.at).
			Describe("%%%s expects an expression but got content", keyword)

	default:
		return nil, ErrExpectedExpression.At(s.at).
			Describe("%%%s expects an expression but got %s", keyword, tok.describe())
	}
}

func (p *parser) expectColon(keyword string) error {
	if tok, ok := p.peek(); ok && tok.Kind == KindColon {
		p.pos++

		return nil
	}

	found, loc := p.found()

	return ErrMissingColon.At(loc).
		Describe("%%%s expects a terminating %q but found %s", keyword, ":", found)
}

func (p *parser) expectEnd(s scope, keyword string) error {
	if p.atStatement(KeywordEnd) {
		p.pos += 2

		return nil
	}

	found, _ := p.found()

	return ErrMissingEnd.At(s.at).
		Describe("%%%s has no matching %%END, found %s", keyword, found)
}

func (p *parser) parseIf(s scope) (*Conditional, error) {
	cond, err := p.parseCondition(s, KeywordIf)
	if err != nil {
		return nil, err
	}

	if err := p.expectColon(KeywordIf); err != nil {
		return nil, err
	}

	n := &Conditional{Condition: cond, Location: s.at}

	if n.Then, err = p.parseBody(s); err != nil {
		return nil, err
	}

	if p.atStatement(KeywordElse) {
		at := p.tokens[p.pos].Location
		p.pos += 2

		if err := p.expectColon(KeywordElse); err != nil {
			return nil, err
		}

		// The else body belongs to the same %IF: it is a sibling of the
		// then body, not nested inside it.
		es := scope{parent: s.parent, child: s.child, who: whoElse, at: at}

		if n.Else, err = p.parseBody(es); err != nil {
			return nil, err
		}
	}

	if err := p.expectEnd(s, KeywordIf); err != nil {
		return nil, err
	}

	return n, nil
}

func (p *parser) parseSwitch(s scope) (*Match, error) {
	subject, err := p.parseCondition(s, KeywordSwitch)
	if err != nil {
		return nil, err
	}

	if err := p.expectColon(KeywordSwitch); err != nil {
		return nil, err
	}

	m := &Match{Subject: subject, Location: s.at}

	for {
		tok, ok := p.peek()
		if !ok {
			return nil, ErrMissingEnd.At(s.at).
				Describe("%%SWITCH has no matching %%END")
		}

		switch {
		case tok.Kind == KindContent && strings.TrimSpace(tok.Text) == "":
			p.pos++

		case p.atStatement(KeywordCase):
			p.pos += 2

			c, err := p.parseCase(s.enter(whoCase, tok.Location))
			if err != nil {
				return nil, err
			}

			m.Cases = append(m.Cases, c)

		case p.atStatement(KeywordDefault):
			if m.Default != nil {
				return nil, ErrDuplicateDefault.At(tok.Location).
					Describe("first %%DEFAULT is at %s", m.Default.Location)
			}

			p.pos += 2

			if m.Default, err = p.parseDefault(s.enter(whoCase, tok.Location)); err != nil {
				return nil, err
			}

		case p.atStatement(KeywordEnd):
			p.pos += 2

			if len(m.Cases) == 0 && m.Default == nil {
				return nil, ErrMissingCase.At(s.at)
			}

			return m, nil

		default:
			found, loc := p.found()

			return nil, ErrStrayToken.At(loc).
				Describe("%s inside %%SWITCH but outside any %%CASE", found)
		}
	}
}

func (p *parser) parseCase(s scope) (*MatchCase, error) {
	value, err := p.parseCondition(s, KeywordCase)
	if err != nil {
		return nil, err
	}

	if err := p.expectColon(KeywordCase); err != nil {
		return nil, err
	}

	body, err := p.parseBody(s)
	if err != nil {
		return nil, err
	}

	if err := p.expectEnd(s, KeywordCase); err != nil {
		return nil, err
	}

	return &MatchCase{Value: value, Body: body, Location: s.at}, nil
}

func (p *parser) parseDefault(s scope) (*MatchCase, error) {
	if p.atStatement(KeywordEnd) {
		return nil, ErrEmptyDefault.At(s.at)
	}

	if err := p.expectColon(KeywordDefault); err != nil {
		return nil, err
	}

	body, err := p.parseBody(s)
	if err != nil {
		return nil, err
	}

	if len(body.Nodes) == 0 {
		return nil, ErrEmptyDefault.At(s.at)
	}

	if err := p.expectEnd(s, KeywordDefault); err != nil {
		return nil, err
	}

	return &MatchCase{Body: body, Location: s.at}, nil
}

// parsePrint parses the argument of %PRINT, which takes no colon, no body
// and no %END.
func (p *parser) parsePrint(s scope) (*Print, error) {
	arg, err := p.parseCondition(s, KeywordPrint)
	if err != nil {
		return nil, err
	}

	return &Print{Argument: arg, Location: s.at}, nil
}

// parseExpression parses '[' chain ']'.
func (p *parser) parseExpression(s scope) (*Expression, error) {
	if err := p.guard(s); err != nil {
		return nil, err
	}

	open, err := p.take()
	if err != nil {
		return nil, err
	}

	value, err := p.parseChain(s)
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok && tok.Kind == KindRightBracket {
		p.pos++

		return &Expression{Value: value, Location: open.Location}, nil
	}

	found, loc := p.found()

	return nil, ErrUnexpectedToken.At(loc).
		Describe("expected %q but found %s", "]", found)
}

// parseChain parses operand (operator chain)?. Chains associate to the
// right without precedence, and NOT applies to the rest of the chain.
// Operators of one chain share the scope of their expression; only
// brackets nest.
func (p *parser) parseChain(s scope) (Node, error) {
	if err := p.guard(s); err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok && tok.Is(KindOperator, OperatorNot) {
		p.pos++

		operand, err := p.parseChain(s)
		if err != nil {
			return nil, err
		}

		return &Operator{
			Name:     tok.Text,
			Arity:    Unary,
			LHS:      wrap(operand),
			Location: tok.Location,
		}, nil
	}

	lhs, err := p.parseOperand(s)
	if err != nil {
		return nil, err
	}

	tok, ok := p.peek()
	if ok && tok.Kind == KindIdentifier {
		return nil, unknownWord(tok)
	}

	if !ok || tok.Kind != KindOperator {
		return lhs, nil
	}

	p.pos++

	if OperatorArity(tok.Text) != Binary {
		return nil, ErrInvalidArity.At(tok.Location).
			Describe("%s cannot follow an operand", tok.Text)
	}

	rhs, err := p.parseChain(s)
	if err != nil {
		return nil, err
	}

	return &Operator{
		Name:     tok.Text,
		Arity:    Binary,
		LHS:      wrap(lhs),
		RHS:      wrap(rhs),
		Location: tok.Location,
	}, nil
}

func (p *parser) parseOperand(s scope) (Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, ErrMissingOperand.At(p.endLocation()).
			Describe("input ends before an operand")
	}

	switch tok.Kind {
	case KindLeftBracket:
		return p.parseExpression(s.enter(whoExpression, tok.Location))

	case KindLeftAngle:
		p.pos++

		return p.parseAngle(tok)

	case KindLiteral:
		p.pos++

		return literalOf(tok)

	case KindIdentifier:
		return nil, unknownWord(tok)

	case KindOperator:
		return nil, ErrMissingOperand.At(tok.Location).
			Describe("%s has no left-hand operand", tok.Text)

	default:
		return nil, ErrMissingOperand.At(tok.Location).
			Describe("expected an operand but found %s", tok.describe())
	}
}

// parseAngle parses the payload and closing '>' of a marker whose '<' has
// been consumed.
func (p *parser) parseAngle(open Token) (*Literal, error) {
	payload, ok := p.peek()

	switch {
	case ok && (payload.Kind == KindIdentifier || payload.Kind == KindLiteral):
		p.pos++
	case ok && payload.Kind == KindRightAngle:
		return nil, ErrEmptyLiteral.At(open.Location).Describe("empty %q marker", "<>")
	default:
		found, loc := p.found()

		return nil, ErrUnexpectedToken.At(loc).
			Describe("expected a literal after %q but found %s", "<", found)
	}

	if tok, ok := p.peek(); ok && tok.Kind == KindRightAngle {
		p.pos++

		return &Literal{Value: payload.Text, Form: FormAngle, Location: open.Location}, nil
	}

	found, loc := p.found()

	return nil, ErrUnexpectedToken.At(loc).
		Describe("expected %q but found %s", ">", found)
}

// unknownWord reports a bare word inside an expression.
func unknownWord(tok Token) error {
	hint := ""
	if alt := suggest(tok.Text, Operators()); alt != "" {
		hint = ", did you mean " + alt + "?"
	}

	return ErrUnknownOperator.At(tok.Location).
		Describe("%q is neither an operator nor a delimited literal%s", tok.Text, hint)
}

// literalOf converts a parenthesized or quoted literal token.
func literalOf(tok Token) (*Literal, error) {
	text := tok.Text

	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return &Literal{Value: text[1 : len(text)-1], Form: FormQuoted, Location: tok.Location}, nil
	}

	if len(text) >= 2 && text[0] == '(' && text[len(text)-1] == ')' {
		text = text[1 : len(text)-1]
	}

	if text == "" {
		return nil, ErrEmptyLiteral.At(tok.Location).Describe("empty %q literal", "()")
	}

	return &Literal{Value: text, Form: FormParen, Location: tok.Location}, nil
}

// wrap places an operand in an [Expression] unless it already is one.
func wrap(n Node) Node {
	if e, ok := n.(*Expression); ok {
		return e
	}

	return &Expression{Value: n, Location: n.Pos()}
}
