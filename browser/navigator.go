package browser

import (
	"context"
	"errors"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrWaitTimeout is returned by WaitFor when the locator did not appear
// within the configured timeout. Callers treat it as "page yielded nothing",
// never as a reason to retry.
var ErrWaitTimeout = errors.New("browser: timed out waiting for locator")

// Navigator is the capability surface the scraping pipeline depends on.
// Implementations own a single rendering session; at most one navigation is
// in flight at a time and the session must be released exactly once via its
// own close mechanism.
type Navigator interface {
	// Navigate loads the URL and lets the page settle.
	Navigate(ctx context.Context, url string) error

	// WaitFor blocks until an element matching the CSS selector is present,
	// or returns ErrWaitTimeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// ScrollToBottom scrolls the viewport to the page bottom and lets
	// lazy-loaded content settle.
	ScrollToBottom(ctx context.Context) error

	// Document returns a snapshot of the currently rendered DOM.
	Document(ctx context.Context) (*goquery.Document, error)
}
