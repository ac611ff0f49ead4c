// Package analyze turns matched articles into an analysis verdict.
// The Stub analyzer is the default and returns a fixed neutral payload;
// Lexicon is a deterministic offline scorer that can be swapped in without
// touching the fetch or sink logic.
package analyze

import (
	"context"

	"github.com/mvbarbosa/soywatch/pkg/models"
)

// Analyzer produces a verdict for a single matched article.
type Analyzer interface {
	// Name returns the analyzer name.
	Name() string

	// Analyze returns the verdict for an article. A failure never blocks
	// the article from being recorded; the sink degrades the entry instead.
	Analyze(ctx context.Context, article models.Article) (models.Analysis, error)
}

// Stub is the placeholder analyzer. It always returns the same neutral
// verdict and never fails.
type Stub struct{}

// NewStub creates the placeholder analyzer.
func NewStub() *Stub { return &Stub{} }

// Name returns the analyzer name.
func (*Stub) Name() string { return "stub" }

// Analyze returns the fixed neutral verdict.
func (*Stub) Analyze(_ context.Context, _ models.Article) (models.Analysis, error) {
	return models.Analysis{
		Sentiment:      models.SentimentNeutral,
		ImpactScore:    0.5,
		Summary:        "AI analysis not yet implemented",
		Recommendation: "monitor",
	}, nil
}
