package lang

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/tpp/log"
)

// Tokenize splits source into a flat token stream.
//
// Lines are lexed independently. A directive ('%' and a keyword), an
// opening '[' or a ':' is recognized only where a token may start: at the
// beginning of a line (after indentation) or right after another directive
// token. Anything else runs to the end of the line as content. Expressions
// never span lines; an expression left open at the end of a line is
// reported by the parser.
func Tokenize(ctx context.Context, source string, opts ...Option) ([]Token, error) {
	cfg := makeConfig(opts...)

	l := &lexer{logger: cfg.logger}

	lines := splitLines(source)
	for i, line := range lines {
		if err := l.lexLine(ctx, i+1, line); err != nil {
			return nil, located(err, cfg.file)
		}
	}

	cfg.logger.TraceContext(ctx, "lex complete",
		slog.Int("lines", len(lines)),
		slog.Int("tokens", len(l.tokens)))

	return l.tokens, nil
}

// splitLines strips a byte order mark, normalizes line endings to LF and
// splits on LF. A final line terminator does not produce an empty line.
func splitLines(source string) []string {
	source = strings.TrimPrefix(source, "\uFEFF")
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")

	if source == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(source, "\n"), "\n")
}

type lexer struct {
	logger log.Logger
	tokens []Token
	src    string // current line
	num    int    // current line number
	pos    int    // byte offset in src
	depth  int    // bracket depth
}

func (l *lexer) eol() bool { return l.pos >= len(l.src) }

func (l *lexer) at(pos int) Location {
	return Location{Line: l.num, Column: utf8.RuneCountInString(l.src[:pos]) + 1}
}

func (l *lexer) emit(kind Kind, text string, pos int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Location: l.at(pos)})
}

// emitChar emits the single byte at the cursor as a token of the given kind.
func (l *lexer) emitChar(kind Kind) {
	l.emit(kind, l.src[l.pos:l.pos+1], l.pos)
	l.pos++
}

func (l *lexer) skipBlank() {
	for !l.eol() && isBlank(l.src[l.pos]) {
		l.pos++
	}
}

func (l *lexer) lexLine(ctx context.Context, num int, line string) error {
	l.src, l.num, l.pos, l.depth = line, num, 0, 0

	if strings.TrimLeft(line, " \t") == "" {
		if line == "" {
			l.emit(KindContent, "", 0)
		}

		return nil
	}

	for {
		start := l.pos

		l.skipBlank()

		if l.eol() {
			return nil
		}

		if l.depth > 0 {
			if err := l.lexExpression(); err != nil {
				return err
			}

			continue
		}

		switch c := l.src[l.pos]; {
		case c == '%' && l.lexStatement(ctx):
		case c == '[':
			l.depth++
			l.emitChar(KindLeftBracket)
		case c == ':':
			l.emitChar(KindColon)
		default:
			if start == 0 {
				l.pos = 0 // content keeps its indentation
			}

			l.emit(KindContent, l.src[l.pos:], l.pos)
			l.pos = len(l.src)

			return nil
		}
	}
}

// lexStatement consumes '%' and a keyword. It reports false, consuming
// nothing, if the cursor is not at a directive.
func (l *lexer) lexStatement(ctx context.Context) bool {
	end := l.pos + 1
	for end < len(l.src) && l.src[end] >= 'A' && l.src[end] <= 'Z' {
		end++
	}

	word := l.src[l.pos+1 : end]

	if !IsKeyword(word) || (end < len(l.src) && isWordByte(l.src[end])) {
		if word != "" {
			if hint := suggest(word, keywordNames()); hint != "" {
				l.logger.DebugContext(ctx, "treating unknown directive as content",
					slog.String("location", l.at(l.pos).String()),
					slog.String("word", word),
					slog.String("suggest", "%"+hint))
			}
		}

		return false
	}

	l.emit(KindPercent, "%", l.pos)
	l.emit(KindStatement, word, l.pos+1)
	l.pos = end

	return true
}

func (l *lexer) lexExpression() error {
	switch l.src[l.pos] {
	case '[':
		l.depth++
		l.emitChar(KindLeftBracket)
	case ']':
		l.depth--
		l.emitChar(KindRightBracket)
	case '<':
		l.lexAngle()
	case '>':
		l.emitChar(KindRightAngle)
	case ':':
		l.emitChar(KindColon)
	case '(':
		return l.lexDelimited('(', ')', ErrUnterminatedLiteral)
	case '"':
		return l.lexDelimited('"', '"', ErrUnterminatedString)
	default:
		l.lexWord()
	}

	return nil
}

// lexAngle emits '<', the payload up to the balancing '>' and the '>'
// itself. Nested markers stay in the payload verbatim. The payload also
// ends at a ']' outside any nested marker; the missing '>' is then left for
// the parser to report.
func (l *lexer) lexAngle() {
	l.emitChar(KindLeftAngle)

	start, nest := l.pos, 0

scan:
	for ; !l.eol(); l.pos++ {
		switch l.src[l.pos] {
		case '<':
			nest++
		case '>':
			if nest == 0 {
				break scan
			}

			nest--
		case ']':
			if nest == 0 {
				break scan
			}
		}
	}

	if payload := l.src[start:l.pos]; payload != "" {
		kind := KindLiteral
		if isName(payload) {
			kind = KindIdentifier
		}

		l.emit(kind, payload, start)
	}

	if !l.eol() && l.src[l.pos] == '>' {
		l.emitChar(KindRightAngle)
	}
}

// lexDelimited emits one literal token spanning open through the matching
// close, delimiters included. Parentheses nest; quotes do not.
func (l *lexer) lexDelimited(open, close byte, unterminated *Error) error {
	nest := 0

	for i := l.pos + 1; i < len(l.src); i++ {
		switch l.src[i] {
		case close:
			if nest == 0 {
				l.emit(KindLiteral, l.src[l.pos:i+1], l.pos)
				l.pos = i + 1

				return nil
			}

			nest--
		case open:
			nest++
		}
	}

	return unterminated.At(l.at(l.pos)).
		Describe("no closing %q before end of line", close)
}

// lexWord emits a bare word as an operator, or as an identifier the parser
// will reject.
func (l *lexer) lexWord() {
	end := l.pos
	for end < len(l.src) && !isBlank(l.src[end]) && !strings.ContainsRune(`[]<>()":`, rune(l.src[end])) {
		end++
	}

	if end == l.pos {
		end++
	}

	word := l.src[l.pos:end]

	kind := KindIdentifier
	if IsOperator(word) {
		kind = KindOperator
	}

	l.emit(kind, word, l.pos)
	l.pos = end
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// isName reports whether an angle payload is a plain variable name rather
// than text with spaces or nested markers.
func isName(s string) bool {
	return !strings.ContainsAny(s, " \t<>")
}
