package lang

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// suggest returns the best fuzzy match of word among candidates, or "".
func suggest(word string, candidates []string) string {
	if word == "" {
		return ""
	}

	matches := fuzzy.Find(strings.ToUpper(word), candidates)
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

func keywordNames() []string {
	names := make([]string, 0, len(keywords))
	for k := range keywords {
		names = append(names, k)
	}

	slices.Sort(names)

	return names
}
