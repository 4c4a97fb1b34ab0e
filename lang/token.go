package lang

import (
	"strconv"
	"strings"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	KindPercent Kind = iota
	KindLeftBracket
	KindRightBracket
	KindLeftAngle
	KindRightAngle
	KindColon
	KindStatement
	KindOperator
	KindLiteral
	KindIdentifier
	KindContent
)

var kindNames = [...]string{
	KindPercent:      "percent",
	KindLeftBracket:  "left-bracket",
	KindRightBracket: "right-bracket",
	KindLeftAngle:    "left-angle",
	KindRightAngle:   "right-angle",
	KindColon:        "colon",
	KindStatement:    "statement",
	KindOperator:     "operator",
	KindLiteral:      "literal",
	KindIdentifier:   "identifier",
	KindContent:      "content",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText renders the kind by name in token dumps.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Statement keywords recognized after a '%'.
const (
	KeywordIf      = "IF"
	KeywordElse    = "ELSE"
	KeywordSwitch  = "SWITCH"
	KeywordCase    = "CASE"
	KeywordDefault = "DEFAULT"
	KeywordPrint   = "PRINT"
	KeywordEnd     = "END"
)

var keywords = map[string]struct{}{
	KeywordIf:      {},
	KeywordElse:    {},
	KeywordSwitch:  {},
	KeywordCase:    {},
	KeywordDefault: {},
	KeywordPrint:   {},
	KeywordEnd:     {},
}

// IsKeyword reports whether s is a statement keyword.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

// Location is a 1-based line and column in the source text. Columns count
// runes, not bytes.
type Location struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsValid reports whether l refers to a real position.
func (l Location) IsValid() bool { return l.Line > 0 && l.Column > 0 }

func (l Location) String() string {
	return strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
}

// Token is one lexical unit of a template.
type Token struct {
	Text     string   `json:"text"     yaml:"text"`
	Location Location `json:"location" yaml:"location"`
	Kind     Kind     `json:"kind"     yaml:"kind"`
}

// Is reports whether t has kind k and, when text is non-empty, the given
// text.
func (t Token) Is(k Kind, text ...string) bool {
	if t.Kind != k {
		return false
	}

	return len(text) == 0 || t.Text == text[0]
}

// describe names the token in diagnostics: statements as "%IF", delimiters
// by their character, content by kind only.
func (t Token) describe() string {
	switch t.Kind {
	case KindStatement:
		return "%" + t.Text
	case KindContent:
		if strings.TrimSpace(t.Text) == "" {
			return "empty line"
		}

		return "content " + strconv.Quote(strings.TrimSpace(t.Text))
	case KindOperator, KindIdentifier, KindLiteral:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	default:
		return strconv.Quote(t.Text)
	}
}
