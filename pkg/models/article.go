package models

import "time"

// Article represents a single normalized news article fetched for a ticker.
// The URL is the article's identity for deduplication purposes.
type Article struct {
	Ticker          string   `json:"ticker"`
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	Source          string   `json:"source,omitempty"`
	PublishedAt     string   `json:"published_at"` // as delivered by the upstream API
	Description     string   `json:"description,omitempty"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

// Sentiment labels the directional read of an article.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// Analysis represents the analyzer verdict attached to an emitted article.
type Analysis struct {
	Sentiment      Sentiment `json:"sentiment"`
	ImpactScore    float64   `json:"impact_score"` // 0.0 to 1.0
	Summary        string    `json:"summary"`
	Recommendation string    `json:"recommendation"` // e.g., "monitor", "attention"
}

// Alert pairs a matched article with its analysis. Alerts are what the
// monitor emits to the sink and broadcasts to API subscribers.
type Alert struct {
	Article    Article   `json:"article"`
	Analysis   *Analysis `json:"analysis,omitempty"` // nil when the analyzer failed
	DetectedAt time.Time `json:"detected_at"`
}
