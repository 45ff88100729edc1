package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"michelin-scraper/config"
	"michelin-scraper/utils"
)

// Session is a chromedp-backed Navigator. It holds one headless browser tab
// for its whole lifetime; all navigations run sequentially on that tab.
type Session struct {
	logger *utils.Logger
	tab    context.Context
	settle time.Duration

	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

var _ Navigator = (*Session)(nil)

// NewSession starts a browser and returns a ready Session. Close must be
// called exactly once when the run ends, regardless of outcome.
func NewSession(cfg *config.Config, logger *utils.Logger) (*Session, error) {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[browser] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	tab, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Launch the browser process eagerly so acquisition failures surface
	// here instead of on the first Navigate.
	if err := chromedp.Run(tab); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("browser: start session: %w", err)
	}

	return &Session{
		logger:      logger,
		tab:         tab,
		settle:      time.Duration(cfg.SettleDelayMs) * time.Millisecond,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Close releases the tab and the underlying browser process.
func (s *Session) Close() {
	s.cancelTab()
	s.cancelAlloc()
}

// Navigate loads the URL and sleeps for the settling delay so asynchronous
// content can populate.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := chromedp.Run(s.tab,
		chromedp.Navigate(url),
		chromedp.Sleep(s.settle),
	)
	if err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

// WaitFor blocks until the selector is present in the DOM or the timeout
// elapses.
func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(s.tab, timeout)
	defer cancel()

	err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrWaitTimeout
		}
		return fmt.Errorf("browser: wait for %q: %w", selector, err)
	}
	return nil
}

// ScrollToBottom forces lazy-loaded sections into the DOM.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := chromedp.Run(s.tab,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(s.settle),
	)
	if err != nil {
		return fmt.Errorf("browser: scroll to bottom: %w", err)
	}
	return nil
}

// Document snapshots the rendered page for query-by-locator parsing.
func (s *Session) Document(ctx context.Context) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var html string
	if err := chromedp.Run(s.tab, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("browser: snapshot dom: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("browser: parse dom snapshot: %w", err)
	}
	return doc, nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
