package monitor

import "strings"

// Matcher tests article text against the configured keyword list.
// Matching is plain case-insensitive substring containment: no stemming,
// no tokenization, so a keyword also matches inside an unrelated word.
type Matcher struct {
	keywords []string // configured order, as displayed
	lowered  []string
}

// NewMatcher creates a matcher over the keyword list. Duplicate entries are
// dropped, keeping the first occurrence, so a keyword is reported once.
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{}
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		lower := strings.ToLower(kw)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		m.keywords = append(m.keywords, kw)
		m.lowered = append(m.lowered, lower)
	}
	return m
}

// Matches returns the configured keywords found in text, preserving the
// configured order regardless of where each occurs, without duplicates.
// Returns nil when nothing matches.
func (m *Matcher) Matches(text string) []string {
	lower := strings.ToLower(text)

	var matched []string
	for i, kw := range m.lowered {
		if strings.Contains(lower, kw) {
			matched = append(matched, m.keywords[i])
		}
	}
	return matched
}

// Keywords returns the configured keyword list.
func (m *Matcher) Keywords() []string {
	return m.keywords
}
