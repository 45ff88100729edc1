package michelin

import (
	"context"
	"fmt"
	"time"

	"michelin-scraper/browser"
	"michelin-scraper/config"
	"michelin-scraper/models"
	"michelin-scraper/utils"
)

// cardWaitSelector is the presence locator the collector waits on before
// reading a listing page.
const cardWaitSelector = "div[class*='card__menu'], a[data-track*='restaurant']"

// ListingCollector drives pagination over the guide's listing pages and
// accumulates deduplicated restaurants. The collection is append-only for
// the run's duration; dedup is by display name, first occurrence wins.
type ListingCollector struct {
	cfg    *config.Config
	logger *utils.Logger
	nav    browser.Navigator
	parser *Parser
	pacer  *utils.Pacer
	names  *utils.NameSet

	restaurants []models.Restaurant
}

// NewListingCollector creates a collector bound to one navigator session.
func NewListingCollector(cfg *config.Config, logger *utils.Logger, nav browser.Navigator) *ListingCollector {
	return &ListingCollector{
		cfg:    cfg,
		logger: logger,
		nav:    nav,
		parser: NewParser(cfg.BaseURL, cfg.NearbyCap),
		pacer:  utils.NewPacer(cfg.RateLimitMs),
		names:  utils.NewNameSet(),
	}
}

// Collect walks pages 1..MaxPages, stopping early on the first page that
// yields zero new restaurants or fails to load. Whatever was accumulated by
// then is returned; early termination never discards prior pages.
func (c *ListingCollector) Collect(ctx context.Context) []models.Restaurant {
	c.logger.Info("[listing] Starting scrape, page ceiling: %d", c.cfg.MaxPages)

	for page := 1; page <= c.cfg.MaxPages; page++ {
		added := c.collectPage(ctx, page)
		if added == 0 {
			c.logger.Warn("[listing] Page %d yielded no new restaurants — stopping", page)
			break
		}
		c.logger.Info("[listing] Page %d done — %d new, %d total", page, added, len(c.restaurants))
	}

	c.logger.Info("[listing] Scrape complete — total restaurants: %d", len(c.restaurants))
	return c.restaurants
}

// collectPage loads one listing page and returns the number of new
// restaurants accepted. Load failures count as an empty page; they are
// logged, never retried.
func (c *ListingCollector) collectPage(ctx context.Context, page int) int {
	url := c.pageURL(page)
	c.logger.Info("[listing] Scraping page %d — URL: %s", page, url)

	c.pacer.Wait()
	if err := c.nav.Navigate(ctx, url); err != nil {
		c.logger.Error("[listing] Page %d failed to load: %v", page, err)
		return 0
	}

	timeout := time.Duration(c.cfg.WaitTimeoutSec) * time.Second
	if err := c.nav.WaitFor(ctx, cardWaitSelector, timeout); err != nil {
		c.logger.Error("[listing] Page %d: restaurants did not appear: %v", page, err)
		return 0
	}

	if err := c.nav.ScrollToBottom(ctx); err != nil {
		c.logger.Warn("[listing] Page %d: scroll failed: %v", page, err)
	}

	doc, err := c.nav.Document(ctx)
	if err != nil {
		c.logger.Error("[listing] Page %d: snapshot failed: %v", page, err)
		return 0
	}

	cards := doc.Find("div.card__menu")
	if cards.Length() == 0 {
		cards = doc.Find("a[data-track*='restaurant']")
	}
	c.logger.Debug("[listing] Page %d — found %d cards", page, cards.Length())

	added := 0
	for i := range cards.Nodes {
		r, ok := c.parser.ParseCard(cards.Eq(i))
		if !ok {
			continue
		}

		if !c.names.Add(r.Name) {
			c.logger.Debug("[listing] Skipping duplicate: %s", r.Name)
			continue
		}

		c.restaurants = append(c.restaurants, r)
		added++
		c.logger.Info("[listing]   %d. %s — %s — %s / %d", i+1, r.Name, r.Location, r.Distinction, r.Stars)
	}

	return added
}

// pageURL builds the listing URL for a 1-based page number. Page 1 is the
// bare listing URL, later pages append /page/N.
func (c *ListingCollector) pageURL(page int) string {
	if page == 1 {
		return c.cfg.ListingURL
	}
	return fmt.Sprintf("%s/page/%d", c.cfg.ListingURL, page)
}
