package odds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

const (
	// BaseURL for Google search, which surfaces bookmaker odds widgets.
	BaseURL = "https://www.google.com/search"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval to prevent rate limiting
	MinRequestInterval = 2 * time.Second
)

// Client scrapes match odds with a headless browser, since the widgets only
// exist after JS renders.
type Client struct {
	lastRequest time.Time
	interval    time.Duration
	log         *logrus.Entry

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a new odds scraper client
func NewClient(log *logrus.Logger) (*Client, error) {
	if log == nil {
		log = logrus.New()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		interval: MinRequestInterval,
		log:      log.WithField("component", "odds-client"),
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// Close releases resources
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchMatchOdds scrapes the odds widget for one matchup and parses it.
func (c *Client) FetchMatchOdds(ctx context.Context, homeTeam, awayTeam string) (*MatchOdds, error) {
	query := fmt.Sprintf("nba %s vs %s odds", homeTeam, awayTeam)
	html, err := c.fetchWithRateLimit(ctx, query)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	odds := ParseMatchOdds(doc, homeTeam, awayTeam)
	if odds == nil {
		return nil, fmt.Errorf("no odds widget found for %s vs %s", homeTeam, awayTeam)
	}
	c.log.WithFields(logrus.Fields{
		"home": homeTeam,
		"away": awayTeam,
	}).Debug("odds scraped")
	return odds, nil
}

// fetchWithRateLimit fetches content with automatic rate limiting
func (c *Client) fetchWithRateLimit(ctx context.Context, query string) (string, error) {
	if !c.lastRequest.IsZero() {
		elapsed := time.Since(c.lastRequest)
		if elapsed < c.interval {
			wait := c.interval - elapsed
			c.log.WithField("wait", wait.String()).Debug("rate limiting scrape")
			time.Sleep(wait)
		}
	}

	html, err := c.fetch(ctx, query)
	c.lastRequest = time.Now()

	return html, err
}

// fetch performs the actual fetch using chromedp
func (c *Client) fetch(ctx context.Context, query string) (string, error) {
	browserCtx, cancelBrowser := chromedp.NewContext(c.allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, 30*time.Second)
	defer cancelTimeout()

	// Honor caller cancellation; chromedp contexts descend from the
	// allocator, not from ctx.
	stop := context.AfterFunc(ctx, cancelBrowser)
	defer stop()

	var htmlContent string
	url := fmt.Sprintf("%s?q=%s", BaseURL, strings.ReplaceAll(query, " ", "+"))

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)

	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}

	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}

	return htmlContent, nil
}
