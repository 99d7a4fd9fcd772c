package breakingpoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"
)

const (
	// SourceURL is the advanced stats page
	SourceURL = "https://www.breakingpoint.gg/stats/advanced"

	// MarkerHeader only appears once the client-side stats table has rendered
	MarkerHeader = "Slayer Rating"

	// DefaultWaitTimeout bounds the wait for the rendered table
	DefaultWaitTimeout = 15 * time.Second

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ErrExtractionTimeout is returned when the marker never appears within the wait timeout.
var ErrExtractionTimeout = errors.New("stats table did not render before timeout")

// FetchRequest describes one rendered-page fetch
type FetchRequest struct {
	URL      string
	Selector string
	Marker   string
	Timeout  time.Duration
}

// PageFetcher returns the fully rendered HTML of a page
type PageFetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (string, error)
}

// ChromeFetcher renders pages with a headless Chrome via chromedp.
// Every Fetch owns its browser and tears it down before returning.
type ChromeFetcher struct {
	logger *log.Logger
	opts   []chromedp.ExecAllocatorOption
}

// NewChromeFetcher creates a fetcher with headless defaults
func NewChromeFetcher(logger *log.Logger) *ChromeFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)
	if logger == nil {
		logger = log.Default()
	}
	return &ChromeFetcher{logger: logger, opts: opts}
}

// Fetch navigates to req.URL, waits until req.Selector contains req.Marker and
// returns the document's outer HTML.
func (f *ChromeFetcher) Fetch(ctx context.Context, req FetchRequest) (string, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	f.logger.Debugf("Launching headless browser for %s", req.URL)

	var ready bool
	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(req.URL),
		chromedp.Poll(markerScript(req.Selector, req.Marker), &ready,
			chromedp.WithPollingTimeout(timeout),
			chromedp.WithPollingInterval(250*time.Millisecond),
		),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)

	if errors.Is(err, chromedp.ErrPollingTimeout) {
		return "", fmt.Errorf("waiting for %q in %s: %w", req.Marker, req.Selector, ErrExtractionTimeout)
	}
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}

	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}

	return htmlContent, nil
}

func markerScript(selector, marker string) string {
	return fmt.Sprintf(
		`document.querySelector(%q) !== null && document.querySelector(%q).innerText.includes(%q)`,
		selector, selector, marker,
	)
}
