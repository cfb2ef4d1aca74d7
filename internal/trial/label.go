package trial

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// #region labels
// LabelFromFilename turns "square_unfilled-small.png" into "Square Unfilled Small".
func LabelFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return cases.Title(language.Und).String(strings.Join(strings.Fields(base), " "))
}

// GenericLabel returns the 1-based "<prefix> i" label for group i.
func GenericLabel(prefix string, i int) string {
	return fmt.Sprintf("%s %d", prefix, i+1)
}

// Distinct suffixes repeated labels with " (2)", " (3)", ... so that every
// label in the result is unique.
func Distinct(labels []string) []string {
	out := make([]string, len(labels))
	used := make(map[string]bool, len(labels))
	for i, l := range labels {
		cand := l
		for n := 2; used[cand]; n++ {
			cand = fmt.Sprintf("%s (%d)", l, n)
		}
		used[cand] = true
		out[i] = cand
	}
	return out
}

// #endregion labels
