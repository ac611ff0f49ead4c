package analyze

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/mvbarbosa/soywatch/pkg/models"
)

// ------------------------------------------------------------------
// Keyword-based sentiment scorer (offline, no LLM needed).
// Terms are read from the soy price perspective: a supply shock like
// drought is bullish for the contract even though it is bad news for
// the producer.
// ------------------------------------------------------------------

// bullish / bearish term dictionaries (lowercase).
var bullishTerms = map[string]float64{
	"alta": 0.5, "valorização": 0.6, "recorde de exportação": 0.7,
	"demanda aquecida": 0.6, "seca": 0.6, "estiagem": 0.6,
	"quebra de safra": 0.8, "geada": 0.5, "escassez": 0.7,
	"prêmio": 0.4, "compras da china": 0.6, "dólar em alta": 0.4,
	"sobe": 0.4, "avança": 0.4, "firme": 0.3,
}

var bearishTerms = map[string]float64{
	"queda": 0.5, "desvalorização": 0.6, "supersafra": 0.7,
	"safra recorde": 0.7, "excesso de oferta": 0.7, "recuo": 0.4,
	"cancelamento": 0.6, "demanda fraca": 0.6, "dólar em queda": 0.4,
	"cai": 0.4, "despenca": 0.7, "pressão baixista": 0.6,
	"estoques elevados": 0.5,
}

// Lexicon is a deterministic analyzer scoring articles against the
// bullish/bearish term dictionaries.
type Lexicon struct{}

// NewLexicon creates the lexicon analyzer.
func NewLexicon() *Lexicon { return &Lexicon{} }

// Name returns the analyzer name.
func (*Lexicon) Name() string { return "lexicon" }

// Analyze scores the article title and description. It never fails.
func (*Lexicon) Analyze(_ context.Context, article models.Article) (models.Analysis, error) {
	text := article.Title
	if article.Description != "" {
		text += " " + article.Description
	}

	score, confidence, matched := scoreText(text)

	sentiment := models.SentimentNeutral
	switch {
	case score > 0.15:
		sentiment = models.SentimentBullish
	case score < -0.15:
		sentiment = models.SentimentBearish
	}

	recommendation := "monitor"
	if math.Abs(score) >= 0.3 && confidence >= 0.4 {
		recommendation = "attention"
	}

	summary := "Sem sinal direcional no texto"
	if len(matched) > 0 {
		summary = "Termos direcionais: " + strings.Join(matched, ", ")
	}

	return models.Analysis{
		Sentiment:      sentiment,
		ImpactScore:    impactScore(score, confidence),
		Summary:        summary,
		Recommendation: recommendation,
	}, nil
}

// scoreText returns a net score in -1..+1 with a match-count confidence
// and the matched terms in sorted order.
func scoreText(text string) (score, confidence float64, matched []string) {
	lower := strings.ToLower(text)

	bullScore := 0.0
	bearScore := 0.0
	matches := 0

	for term, weight := range bullishTerms {
		if strings.Contains(lower, term) {
			bullScore += weight
			matches++
			matched = append(matched, term)
		}
	}

	for term, weight := range bearishTerms {
		if strings.Contains(lower, term) {
			bearScore += weight
			matches++
			matched = append(matched, term)
		}
	}

	sort.Strings(matched)

	if matches == 0 {
		return 0, 0.1, nil // no signal
	}

	total := bullScore + bearScore
	if total == 0 {
		return 0, 0.1, matched
	}

	// Net score normalized to -1..+1.
	score = (bullScore - bearScore) / total

	// Confidence based on number of term matches.
	confidence = math.Min(float64(matches)*0.15+0.2, 0.85)

	return score, confidence, matched
}

// impactScore maps a directional score to 0..1, resting at 0.5 when
// there is no signal.
func impactScore(score, confidence float64) float64 {
	impact := 0.5 + 0.5*math.Abs(score)*confidence
	return math.Round(impact*100) / 100
}
