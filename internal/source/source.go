// Package source provides article retrieval from external news services.
// It defines a common Source interface and implements concrete sources for
// the NewsAPI search endpoint and agribusiness RSS feeds.
package source

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mvbarbosa/soywatch/pkg/models"
)

// Source defines the common interface that all news sources implement.
type Source interface {
	// Name returns the human-readable name of this source.
	Name() string

	// Search returns articles matching a boolean search query within the
	// given window. Sources that cannot evaluate the full query grammar
	// approximate it as closely as their protocol allows.
	Search(ctx context.Context, query string, opts SearchOptions) ([]models.Article, error)

	// Ping checks that the source is reachable and usable.
	Ping(ctx context.Context) error
}

// SearchOptions bound a single search request.
type SearchOptions struct {
	Language string
	From     time.Time
	To       time.Time
	PageSize int
}

// DefaultPageSize caps results per search when the caller does not set one.
const DefaultPageSize = 20

// --- Sentinel errors ---

// ErrAPIStatus is returned when an upstream API answers with an error status
// in its response envelope rather than at the HTTP layer.
var ErrAPIStatus = fmt.Errorf("news API returned error status")

// --- Shared helpers ---

// NoTitle is substituted when an upstream article carries no title.
const NoTitle = "No title"

var quotedTermRE = regexp.MustCompile(`"([^"]+)"`)

// queryTerms extracts the quoted terms of the leading clause of a boolean
// search query, lowercased. For `("ADM" OR "Archer Daniels Midland") AND
// ("clima" OR "safra")` it returns ["adm", "archer daniels midland"].
// Sources without a boolean query grammar match these terms directly.
func queryTerms(query string) []string {
	head := query
	if i := strings.Index(query, ") AND ("); i >= 0 {
		head = query[:i]
	}
	var terms []string
	for _, m := range quotedTermRE.FindAllStringSubmatch(head, -1) {
		terms = append(terms, strings.ToLower(m[1]))
	}
	return terms
}

// matchesAny checks if text contains any of the terms (case-insensitive).
func matchesAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
