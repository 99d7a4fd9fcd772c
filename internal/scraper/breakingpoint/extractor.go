package breakingpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Extractor scrapes the advanced stats table into records
type Extractor struct {
	fetcher PageFetcher
	url     string
	timeout time.Duration
	logger  *log.Logger
	now     func() time.Time
}

// Option customizes an Extractor
type Option func(*Extractor)

// WithURL overrides the stats page URL
func WithURL(url string) Option {
	return func(e *Extractor) {
		if url != "" {
			e.url = url
		}
	}
}

// WithTimeout overrides the wait for the rendered table
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewExtractor creates an extractor backed by fetcher
func NewExtractor(fetcher PageFetcher, logger *log.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	e := &Extractor{
		fetcher: fetcher,
		url:     SourceURL,
		timeout: DefaultWaitTimeout,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract renders the stats page and parses every table row. The whole
// table is materialized before returning.
func (e *Extractor) Extract(ctx context.Context) (*Extraction, error) {
	e.logger.Infof("Fetching stats table from %s", e.url)

	html, err := e.fetcher.Fetch(ctx, FetchRequest{
		URL:      e.url,
		Selector: "table",
		Marker:   MarkerHeader,
		Timeout:  e.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching stats page: %w", err)
	}

	doc, err := ParseHTML(html)
	if err != nil {
		return nil, err
	}

	extraction := &Extraction{
		SourceURL: e.url,
		ScrapedAt: e.now().UTC(),
		Rows:      ParseTable(doc),
	}

	e.logger.Infof("✓ Parsed %d records (%d rows skipped)", len(extraction.Records()), len(extraction.Skipped()))
	return extraction, nil
}
