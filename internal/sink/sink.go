// Package sink appends qualifying articles as human-readable blocks to an
// append-only alert log.
package sink

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mvbarbosa/soywatch/pkg/models"
)

const (
	separator = "================================================================================"

	// descriptionLimit is the maximum description length recorded per block,
	// counted in characters, with an ellipsis appended beyond it.
	descriptionLimit = 200
)

// Writer appends alert blocks to an underlying stream. Writes are
// line-buffered per block but carry no atomicity guarantee: a crash
// mid-block leaves a partial block behind.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
	f  *os.File // non-nil when the writer owns the file
}

// New creates a sink over any writer.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Open opens (or creates) the alert log file in append mode.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open alert log: %w", err)
	}
	return &Writer{w: f, f: f}, nil
}

// Close closes the underlying file when the writer owns one.
func (s *Writer) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}

// Record appends one alert block. A nil Analysis marks an analyzer failure:
// the block is terminated by a closing separator instead of the AI summary
// line.
func (s *Writer) Record(alert models.Alert) error {
	ts := alert.DetectedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	article := alert.Article

	var b strings.Builder
	fmt.Fprintf(&b, "📈 SOY NEWS ALERT - %s\n", ts.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "Ticker: %s\n", article.Ticker)
	fmt.Fprintf(&b, "Title: %s\n", article.Title)
	if article.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", article.Source)
	}
	fmt.Fprintf(&b, "Published: %s\n", article.PublishedAt)
	fmt.Fprintf(&b, "URL: %s\n", article.URL)
	fmt.Fprintf(&b, "Matched Keywords: %s\n", strings.Join(article.MatchedKeywords, ", "))
	if article.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", truncate(article.Description, descriptionLimit))
	}
	if alert.Analysis != nil {
		fmt.Fprintf(&b, "AI Analysis: %s\n", alert.Analysis.Summary)
	} else {
		fmt.Fprintln(&b, separator)
	}
	fmt.Fprintln(&b)

	return s.write(b.String())
}

// StartBanner writes the monitoring startup banner.
func (s *Writer) StartBanner(tickers, keywords []string, interval time.Duration) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n🚀 Starting Soy News Monitor\n")
	fmt.Fprintf(&b, "Monitoring tickers: %s\n", strings.Join(tickers, ", "))
	fmt.Fprintf(&b, "Refresh interval: %d seconds\n", int(interval.Seconds()))
	fmt.Fprintf(&b, "Keywords: %s\n", keywordPreview(keywords))
	fmt.Fprintln(&b, "Press Ctrl+C to stop")
	fmt.Fprintln(&b, separator)

	return s.write(b.String())
}

// StopBanner writes the shutdown banner.
func (s *Writer) StopBanner() error {
	return s.write("\n👋 Stopping Soy News Monitor...\n")
}

func (s *Writer) write(block string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, block); err != nil {
		return fmt.Errorf("write alert log: %w", err)
	}
	return nil
}

// truncate shortens s to limit characters, appending an ellipsis when
// anything was cut. Counts runes so multi-byte text is never split.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// keywordPreview renders the first five keywords with a count of the rest.
func keywordPreview(keywords []string) string {
	if len(keywords) <= 5 {
		return strings.Join(keywords, ", ")
	}
	return fmt.Sprintf("%s... (+%d more)", strings.Join(keywords[:5], ", "), len(keywords)-5)
}
