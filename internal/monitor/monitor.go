package monitor

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mvbarbosa/soywatch/internal/analyze"
	"github.com/mvbarbosa/soywatch/internal/sink"
	"github.com/mvbarbosa/soywatch/internal/source"
	"github.com/mvbarbosa/soywatch/pkg/models"
	"github.com/mvbarbosa/soywatch/pkg/utils"
)

// Options configure a Monitor.
type Options struct {
	Tickers  []string      // processed in this order each cycle
	Keywords []string      // matched in this order
	Language string        // article language filter passed to sources
	Lookback time.Duration // search window and dedup retention
	Interval time.Duration // delay between cycles
	PageSize int           // per-source result cap
}

// Monitor owns the poll cycle state: the seen-URL store, the keyword
// matcher, and the cycle counters. Construct once with New; state never
// lives at package level.
type Monitor struct {
	opts     Options
	sources  []source.Source
	matcher  *Matcher
	seen     *SeenStore
	analyzer analyze.Analyzer
	sink     *sink.Writer
	logger   *log.Logger

	alertFunc func(models.Alert)

	mu         sync.RWMutex
	cycles     int
	alertCount int
	lastCycle  time.Time
}

// New creates a monitor. Sources are consulted sequentially in the order
// given. A nil logger falls back to the standard logger.
func New(opts Options, sources []source.Source, analyzer analyze.Analyzer, sw *sink.Writer, logger *log.Logger) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.Lookback <= 0 {
		opts.Lookback = 14 * 24 * time.Hour
	}
	if opts.PageSize <= 0 {
		opts.PageSize = source.DefaultPageSize
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Monitor{
		opts:     opts,
		sources:  sources,
		matcher:  NewMatcher(opts.Keywords),
		seen:     NewSeenStore(opts.Lookback),
		analyzer: analyzer,
		sink:     sw,
		logger:   logger,
	}
}

// OnAlert registers a callback invoked after each recorded alert.
// Must be set before Run.
func (m *Monitor) OnAlert(fn func(models.Alert)) {
	m.alertFunc = fn
}

// Run writes the startup banner, runs one cycle immediately, then runs a
// cycle per interval tick until ctx is cancelled. Cancellation is observed
// between tickers and inside source HTTP calls; on cancel the shutdown
// banner is written and Run returns nil.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.sink.StartBanner(m.opts.Tickers, m.matcher.Keywords(), m.opts.Interval); err != nil {
		return err
	}

	if err := m.RunCycle(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Printf("Monitor stopped by user")
			return m.sink.StopBanner()
		case <-ticker.C:
			if err := m.RunCycle(ctx); err != nil && ctx.Err() == nil {
				return err
			}
		}
	}
}

// RunCycle runs one full pass over the configured tickers. Source failures
// are contained per ticker; only sink write failures and cancellation abort
// the cycle.
func (m *Monitor) RunCycle(ctx context.Context) error {
	if evicted := m.seen.Evict(time.Now()); evicted > 0 {
		m.logger.Printf("Evicted %d stale URLs from the dedup window", evicted)
	}

	m.logger.Printf("🔍 Checking news for tickers: %s", strings.Join(m.opts.Tickers, ", "))

	total := 0
	for _, ticker := range m.opts.Tickers {
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, article := range m.fetchTicker(ctx, ticker) {
			if err := m.emit(ctx, article); err != nil {
				return err
			}
			total++
		}
	}

	if total == 0 {
		m.logger.Printf("No new relevant articles found")
	} else {
		m.logger.Printf("Found %d new relevant articles", total)
	}

	m.mu.Lock()
	m.cycles++
	m.lastCycle = time.Now()
	m.mu.Unlock()
	return nil
}

// fetchTicker runs one windowed search per source for the ticker and
// returns the previously unseen, keyword-matched articles. A failing
// source is logged and contributes nothing.
func (m *Monitor) fetchTicker(ctx context.Context, ticker string) []models.Article {
	query := BuildQuery(ticker, utils.ResolveAlias(ticker), m.matcher.Keywords())

	now := time.Now()
	opts := source.SearchOptions{
		Language: m.opts.Language,
		From:     now.Add(-m.opts.Lookback),
		To:       now,
		PageSize: m.opts.PageSize,
	}

	var matched []models.Article
	for _, src := range m.sources {
		raw, err := src.Search(ctx, query, opts)
		if err != nil {
			m.logger.Printf("Error fetching news for %s from %s: %v", ticker, src.Name(), err)
			continue
		}

		for _, article := range raw {
			if m.seen.Seen(article.URL) {
				continue
			}
			keywords := m.matcher.Matches(article.Title + " " + article.Description)
			if len(keywords) == 0 {
				// Not recorded as seen: the article may match once the
				// keyword list changes or its text is updated upstream.
				continue
			}

			article.Ticker = ticker
			article.MatchedKeywords = keywords
			m.seen.Add(article.URL)
			matched = append(matched, article)
		}
	}
	return matched
}

// emit analyzes and records one matched article. Analyzer failures degrade
// the block; sink failures propagate.
func (m *Monitor) emit(ctx context.Context, article models.Article) error {
	alert := models.Alert{Article: article, DetectedAt: time.Now()}

	analysis, err := m.analyzer.Analyze(ctx, article)
	if err != nil {
		m.logger.Printf("Error in AI analysis: %v", err)
	} else {
		alert.Analysis = &analysis
	}

	if err := m.sink.Record(alert); err != nil {
		return err
	}

	m.mu.Lock()
	m.alertCount++
	m.mu.Unlock()

	if m.alertFunc != nil {
		m.alertFunc(alert)
	}
	return nil
}

// Status is a point-in-time snapshot of monitor state.
type Status struct {
	Tickers      []string  `json:"tickers"`
	Keywords     int       `json:"keywords"`
	Interval     string    `json:"interval"`
	Sources      []string  `json:"sources"`
	Analyzer     string    `json:"analyzer"`
	Cycles       int       `json:"cycles"`
	Alerts       int       `json:"alerts"`
	SeenURLs     int       `json:"seen_urls"`
	LastCycle    time.Time `json:"last_cycle"`
	MarketStatus string    `json:"market_status"`
}

// Status reports the current monitor state.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.sources))
	for i, src := range m.sources {
		names[i] = src.Name()
	}

	return Status{
		Tickers:      m.opts.Tickers,
		Keywords:     len(m.matcher.Keywords()),
		Interval:     m.opts.Interval.String(),
		Sources:      names,
		Analyzer:     m.analyzer.Name(),
		Cycles:       m.cycles,
		Alerts:       m.alertCount,
		SeenURLs:     m.seen.Len(),
		LastCycle:    m.lastCycle,
		MarketStatus: utils.MarketStatus(),
	}
}
