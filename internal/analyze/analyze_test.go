package analyze

import (
	"context"
	"strings"
	"testing"

	"github.com/mvbarbosa/soywatch/pkg/models"
)

var (
	_ Analyzer = (*Stub)(nil)
	_ Analyzer = (*Lexicon)(nil)
)

func TestStubReturnsFixedPayload(t *testing.T) {
	stub := NewStub()

	a, err := stub.Analyze(context.Background(), models.Article{
		Ticker: "ADM",
		Title:  "Seca afeta safra de soja",
		URL:    "https://example.com/a1",
	})
	if err != nil {
		t.Fatalf("stub must never fail: %v", err)
	}

	if a.Sentiment != models.SentimentNeutral {
		t.Errorf("sentiment = %q, want neutral", a.Sentiment)
	}
	if a.ImpactScore != 0.5 {
		t.Errorf("impact_score = %v, want 0.5", a.ImpactScore)
	}
	if a.Summary != "AI analysis not yet implemented" {
		t.Errorf("summary = %q", a.Summary)
	}
	if a.Recommendation != "monitor" {
		t.Errorf("recommendation = %q, want monitor", a.Recommendation)
	}
}

func TestStubIgnoresArticleContent(t *testing.T) {
	stub := NewStub()

	a1, _ := stub.Analyze(context.Background(), models.Article{Title: "quebra de safra e seca"})
	a2, _ := stub.Analyze(context.Background(), models.Article{Title: "supersafra derruba preços"})

	if a1 != a2 {
		t.Error("stub verdicts must be identical for any input")
	}
}

func TestLexiconBullish(t *testing.T) {
	lex := NewLexicon()

	a, err := lex.Analyze(context.Background(), models.Article{
		Title:       "Quebra de safra nos EUA",
		Description: "Seca prolongada causa escassez e alta nos prêmios",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if a.Sentiment != models.SentimentBullish {
		t.Errorf("sentiment = %q, want bullish", a.Sentiment)
	}
	if a.ImpactScore <= 0.5 {
		t.Errorf("impact_score = %v, want > 0.5 for a strong signal", a.ImpactScore)
	}
	if a.Recommendation != "attention" {
		t.Errorf("recommendation = %q, want attention", a.Recommendation)
	}
	if !strings.Contains(a.Summary, "seca") {
		t.Errorf("summary %q missing matched term", a.Summary)
	}
}

func TestLexiconBearish(t *testing.T) {
	lex := NewLexicon()

	a, err := lex.Analyze(context.Background(), models.Article{
		Title:       "Supersafra derruba cotações",
		Description: "Excesso de oferta e estoques elevados pressionam; soja despenca",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if a.Sentiment != models.SentimentBearish {
		t.Errorf("sentiment = %q, want bearish", a.Sentiment)
	}
}

func TestLexiconNoSignal(t *testing.T) {
	lex := NewLexicon()

	a, err := lex.Analyze(context.Background(), models.Article{
		Title: "Relatório semanal do mercado de soja",
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if a.Sentiment != models.SentimentNeutral {
		t.Errorf("sentiment = %q, want neutral", a.Sentiment)
	}
	if a.ImpactScore != 0.5 {
		t.Errorf("impact_score = %v, want resting 0.5", a.ImpactScore)
	}
	if a.Recommendation != "monitor" {
		t.Errorf("recommendation = %q, want monitor", a.Recommendation)
	}
}

func TestScoreTextMixedSignal(t *testing.T) {
	score, confidence, matched := scoreText("Seca no Sul, mas supersafra no Centro-Oeste")

	if score <= -1 || score >= 1 {
		t.Errorf("score %v out of open range (-1, 1)", score)
	}
	if confidence < 0.2 {
		t.Errorf("confidence %v too low for two matches", confidence)
	}
	if len(matched) != 2 {
		t.Fatalf("matched = %v, want two terms", matched)
	}
	// Sorted order.
	if matched[0] != "seca" || matched[1] != "supersafra" {
		t.Errorf("matched = %v, want [seca supersafra]", matched)
	}
}
