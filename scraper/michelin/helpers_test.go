package michelin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"michelin-scraper/browser"
	"michelin-scraper/config"
	"michelin-scraper/utils"
)

// fakeNavigator serves static HTML per URL, standing in for the browser
// session in collector tests.
type fakeNavigator struct {
	pages        map[string]string
	failNavigate map[string]bool

	current   string
	navigated []string
	scrolls   int
}

var _ browser.Navigator = (*fakeNavigator)(nil)

func (f *fakeNavigator) Navigate(_ context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	if f.failNavigate[url] {
		return fmt.Errorf("browser: navigate %s: net::ERR_CONNECTION_RESET", url)
	}
	f.current = url
	return nil
}

func (f *fakeNavigator) WaitFor(_ context.Context, _ string, _ time.Duration) error {
	if _, ok := f.pages[f.current]; !ok {
		return browser.ErrWaitTimeout
	}
	return nil
}

func (f *fakeNavigator) ScrollToBottom(_ context.Context) error {
	f.scrolls++
	return nil
}

func (f *fakeNavigator) Document(_ context.Context) (*goquery.Document, error) {
	html, ok := f.pages[f.current]
	if !ok {
		return nil, errors.New("browser: snapshot dom: page not loaded")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:        "https://guide.example.com",
		ListingURL:     "https://guide.example.com/th/en/selection/thailand/restaurants",
		WaitTimeoutSec: 1,
		RateLimitMs:    0,
		MaxPages:       20,
		NearbyCap:      10,
	}
}

func testLogger() *utils.Logger {
	return utils.NewLogger()
}

// cardHTML renders one listing card in the guide's markup.
func cardHTML(name, href, location, priceCuisine string, stars int, bib bool) string {
	var awards strings.Builder
	for i := 0; i < stars; i++ {
		awards.WriteString(`<img class="michelin-award" src="/dist/1star.svg">`)
	}
	if bib {
		awards.WriteString(`<img class="michelin-award" src="/dist/bib-gourmand.svg">`)
	}

	return fmt.Sprintf(`
		<div class="card__menu">
			<h3 class="card__menu-title--text">%s</h3>
			<a href="%s">%s</a>
			<div class="card__menu-content--distinction">%s</div>
			<div class="card__menu-footer--score">%s</div>
			<div class="card__menu-footer--score">%s</div>
		</div>`,
		name, href, name, awards.String(), location, priceCuisine)
}

// listingPage wraps cards in a page body.
func listingPage(cards ...string) string {
	return `<html><body>` + strings.Join(cards, "\n") + `</body></html>`
}
