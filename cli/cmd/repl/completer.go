package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tpp/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "set", "unset", "edit", "clear", "quit"}

// isWordBoundary returns true if the rune delimits a word for completion:
// whitespace and the expression punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '[', ']', '<', '>', '(', ')', '"':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on
// a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inMarker reports whether the word starting at wordStart is the payload of
// an angle marker, i.e. preceded by '<'.
func inMarker(input string, wordStart int) bool {
	return wordStart > 0 && input[wordStart-1] == '<'
}

// candidates returns the completion candidates for a word: variable names
// inside a marker, operator names elsewhere, command names in control mode.
func candidates(mode inputMode, marker bool, vars lang.Context) []string {
	switch {
	case mode == modeCtrl:
		return ctrlCommands
	case marker:
		names := slices.Collect(maps.Keys(vars.Local))
		for name := range vars.Environment {
			if _, ok := vars.Local[name]; !ok {
				names = append(names, name)
			}
		}

		slices.Sort(names)

		return names
	default:
		return lang.Operators()
	}
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best-first, with the word boundaries. An empty word has no
// matches, except inside a marker where every variable is offered.
func computeMatches(
	input string,
	cursor int,
	mode inputMode,
	vars lang.Context,
) (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, wordStart, wordEnd := wordBounds(input, cursor)

	marker := mode == modeEval && inMarker(input, wordStart)
	list := candidates(mode, marker, vars)

	if len(list) == 0 {
		return nil, wordStart, wordEnd
	}

	if word == "" {
		if !marker {
			return nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(list))
		for i, c := range list {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	if mode == modeEval && !marker {
		word = strings.ToUpper(word)
	}

	return fuzzy.Find(word, list), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
