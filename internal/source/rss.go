package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/mvbarbosa/soywatch/internal/infra"
	"github.com/mvbarbosa/soywatch/pkg/models"
)

// DefaultFeeds lists Brazilian agribusiness news RSS feeds.
var DefaultFeeds = []string{
	"https://www.noticiasagricolas.com.br/rss/soja.rss",
	"https://www.canalrural.com.br/feed/",
	"https://g1.globo.com/rss/g1/economia/agronegocios/",
	"https://www.agrolink.com.br/rss/noticias.xml",
}

// FeedSource implements Source over a set of RSS/Atom feeds. Feeds have no
// boolean query grammar, so the query's leading clause (ticker and alias)
// is matched as case-insensitive substrings against each item instead.
type FeedSource struct {
	feeds   []string
	parser  *gofeed.Parser
	limiter *infra.RateLimiter
}

// NewFeedSource creates a feed source over the given feed URLs.
func NewFeedSource(feeds []string) *FeedSource {
	return &FeedSource{
		feeds:   feeds,
		parser:  gofeed.NewParser(),
		limiter: infra.NewRateLimiter(2, time.Second), // conservative: 2 req/s
	}
}

// Name returns the source name.
func (s *FeedSource) Name() string { return "RSS" }

// Search fetches every configured feed and returns the items relevant to the
// query's ticker/alias terms, capped at the page size. A failing feed is
// skipped; an error is returned only when no feed could be read at all.
func (s *FeedSource) Search(ctx context.Context, query string, opts SearchOptions) ([]models.Article, error) {
	terms := queryTerms(query)

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var (
		articles []models.Article
		firstErr error
	)
	for _, feedURL := range s.feeds {
		if len(articles) >= pageSize {
			break
		}
		items, err := s.fetchFeed(ctx, feedURL, terms, opts)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		articles = append(articles, items...)
	}

	if len(articles) == 0 && firstErr != nil {
		return nil, firstErr
	}
	if len(articles) > pageSize {
		articles = articles[:pageSize]
	}
	return articles, nil
}

// Ping fetches the first configured feed.
func (s *FeedSource) Ping(ctx context.Context) error {
	if len(s.feeds) == 0 {
		return fmt.Errorf("no feeds configured")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := s.parser.ParseURLWithContext(s.feeds[0], ctx); err != nil {
		return fmt.Errorf("rss ping: %w", err)
	}
	return nil
}

// fetchFeed parses a single feed and filters its items.
func (s *FeedSource) fetchFeed(ctx context.Context, feedURL string, terms []string, opts SearchOptions) ([]models.Article, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	sourceName := strings.TrimSpace(feed.Title)
	if sourceName == "" {
		sourceName = hostOf(feedURL)
	}

	var articles []models.Article
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		// Honor the window's lower bound when the item carries a parsable date.
		if item.PublishedParsed != nil && !opts.From.IsZero() && item.PublishedParsed.Before(opts.From) {
			continue
		}

		desc := cleanHTML(item.Description)
		if len(terms) > 0 && !matchesAny(item.Title+" "+desc, terms) {
			continue
		}

		a := models.Article{
			Title:       item.Title,
			URL:         item.Link,
			Source:      sourceName,
			PublishedAt: item.Published,
			Description: desc,
		}
		if a.Title == "" {
			a.Title = NoTitle
		}
		if a.PublishedAt == "" && item.PublishedParsed != nil {
			a.PublishedAt = item.PublishedParsed.Format(time.RFC3339)
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// hostOf returns the host part of a URL, or the URL itself if unparsable.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
