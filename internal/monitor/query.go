// Package monitor implements the deduplicated keyword-matching poll cycle:
// building ticker queries, fetching and filtering articles, and driving the
// fixed-interval scheduler that records qualifying alerts.
package monitor

import (
	"fmt"
	"strings"
)

// BuildQuery composes the boolean search expression sent to the news
// sources: ("TICKER" OR "alias") AND ("kw1" OR "kw2" OR ...).
// The keyword list must be non-empty. Terms are not escaped; a quote
// character inside a ticker or keyword corrupts the expression.
func BuildQuery(ticker, alias string, keywords []string) string {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = `"` + kw + `"`
	}
	return fmt.Sprintf(`("%s" OR "%s") AND (%s)`, ticker, alias, strings.Join(quoted, " OR "))
}
