package michelin

import (
	"context"

	"michelin-scraper/browser"
	"michelin-scraper/config"
	"michelin-scraper/models"
	"michelin-scraper/utils"
)

// DetailCollector visits previously discovered restaurants and extracts the
// full detail schema for each. Per-restaurant failures degrade to the
// {url, error} variant and never stop the batch: one bad page must not lose
// the rest of the run.
type DetailCollector struct {
	cfg    *config.Config
	logger *utils.Logger
	nav    browser.Navigator
	parser *Parser
	pacer  *utils.Pacer
}

// NewDetailCollector creates a collector bound to one navigator session.
func NewDetailCollector(cfg *config.Config, logger *utils.Logger, nav browser.Navigator) *DetailCollector {
	return &DetailCollector{
		cfg:    cfg,
		logger: logger,
		nav:    nav,
		parser: NewParser(cfg.BaseURL, cfg.NearbyCap),
		pacer:  utils.NewPacer(cfg.RateLimitMs),
	}
}

// Run processes the window [start, start+limit) of refs in order and returns
// one result per visited reference, success or not. A limit of zero or less
// means "through the end".
func (c *DetailCollector) Run(ctx context.Context, refs []models.Reference, start, limit int) []models.DetailResult {
	if start < 0 {
		start = 0
	}
	if start > len(refs) {
		start = len(refs)
	}
	end := len(refs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	c.logger.Info("[details] Scraping %d restaurants (index %d to %d of %d)",
		end-start, start, end-1, len(refs))

	results := make([]models.DetailResult, 0, end-start)
	for i := start; i < end; i++ {
		ref := refs[i]
		c.logger.Info("[details] [%d/%d] %s", i+1, len(refs), ref.URL)

		result := c.scrapeOne(ctx, ref)
		if result.Failed() {
			c.logger.Error("[details] Failed for %s: %s", ref.URL, result.Err)
		} else {
			c.logger.Debug("[details] Extracted: %s — %s", ref.Name, result.Detail.Address)
		}
		results = append(results, result)
	}

	c.logger.Info("[details] Scraping finished: %d results", len(results))
	return results
}

// scrapeOne loads a single restaurant page and builds its result. Only a
// total load/snapshot failure degrades the record; missing fields inside a
// loaded page become Unavailable instead.
func (c *DetailCollector) scrapeOne(ctx context.Context, ref models.Reference) models.DetailResult {
	c.pacer.Wait()

	if err := c.nav.Navigate(ctx, ref.URL); err != nil {
		return models.DetailResult{URL: ref.URL, Err: err.Error()}
	}

	doc, err := c.nav.Document(ctx)
	if err != nil {
		return models.DetailResult{URL: ref.URL, Err: err.Error()}
	}

	detail := c.parser.ParseDetail(doc, ref)

	// Nearby restaurants are lazy-loaded; force them into the DOM and
	// re-snapshot. A failure here leaves the field Unavailable only.
	if err := c.nav.ScrollToBottom(ctx); err != nil {
		c.logger.Warn("[details] Scroll failed for %s: %v", ref.URL, err)
	} else if scrolled, err := c.nav.Document(ctx); err == nil {
		detail.Nearby = c.parser.ParseNearby(scrolled)
	}

	return models.DetailResult{URL: ref.URL, Detail: detail}
}
