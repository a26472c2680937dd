package filter

import "strings"

// Matches is the strict-match check: with strict off every title passes,
// with it on the title must contain at least one of the keywords.
func Matches(title string, keywords []string, strict bool) bool {
	if !strict {
		return true
	}
	t := foldText(title)
	for _, kw := range keywords {
		k := foldText(strings.TrimSpace(kw))
		if k == "" {
			continue
		}
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}
