package michelin

import (
	"github.com/PuerkitoBio/goquery"

	"michelin-scraper/models"
)

// Fallback chains for the detail page schema. Order matters: the first
// matching strategy wins.
var (
	addressSpec = FieldSpec{Name: "address", Strategies: []Strategy{
		{Selector: "div.restaurant-details__heading--address"},
		{Selector: "li.restaurant-details__heading--list-item a[href*='maps']"},
	}}

	phoneSpec = FieldSpec{Name: "phone", Strategies: []Strategy{
		{Selector: "a[href^='tel:']"},
		{Selector: "a[data-event='CTA_tel']"},
		{Selector: "li.restaurant-details__heading--list-item a[href*='tel:']"},
	}}

	descriptionSpec = FieldSpec{Name: "description", Strategies: []Strategy{
		{Selector: "div.restaurant-details__description--text"},
		{Selector: "div.data-sheet__description"},
		{Selector: "div.restaurant-details__description"},
	}}

	priceRangeSpec = FieldSpec{Name: "price_range", Strategies: []Strategy{
		{Selector: "div.restaurant-details__heading--price"},
		{Selector: "div.data-sheet__block--price"},
	}}

	cuisineTypeSpec = FieldSpec{Name: "cuisine_type", Strategies: []Strategy{
		{Selector: "div.data-sheet__block--content span"},
		{Selector: "div.restaurant-details__cuisine"},
	}}

	cardNameSpec = FieldSpec{Name: "name", Strategies: []Strategy{
		{Selector: "h3.card__menu-title--text"},
		{Selector: "h3[class*='title']"},
	}}

	cardURLSpec = FieldSpec{Name: "url", Strategies: []Strategy{
		{Selector: "a[href*='/restaurant']", Attr: "href"},
	}}
)

// Parser composes field extractors into complete records. It is stateless
// apart from its configuration and safe to reuse across pages.
type Parser struct {
	baseURL   string
	nearbyCap int
}

// NewParser creates a Parser. nearbyCap bounds the nearby-restaurants list
// on detail pages.
func NewParser(baseURL string, nearbyCap int) *Parser {
	return &Parser{baseURL: baseURL, nearbyCap: nearbyCap}
}

// ParseCard extracts one listing card. Returns false when the card has no
// usable name; every other field degrades to its sentinel/default instead.
func (p *Parser) ParseCard(card Queryable) (models.Restaurant, bool) {
	name := extractText(card, cardNameSpec)
	if name == models.Unavailable {
		return models.Restaurant{}, false
	}

	stars, distinction := extractAwards(card)

	r := models.Restaurant{
		Name:        name,
		URL:         resolveURL(p.baseURL, extractText(card, cardURLSpec)),
		Stars:       stars,
		Distinction: distinction,
		Location:    models.Unavailable,
		Price:       models.Unavailable,
		Cuisine:     models.Unavailable,
	}

	// The footer renders two score blocks: location first, then the
	// composite "price · cuisine" text.
	scores := card.Find("div.card__menu-footer--score")
	if loc := trimmedText(scores.Eq(0)); loc != "" {
		r.Location = loc
	}
	if composite := trimmedText(scores.Eq(1)); composite != "" {
		r.Price, r.Cuisine = splitPriceCuisine(composite)
	}

	return r, true
}

// ParseDetail extracts the full detail schema from a rendered restaurant
// page, minus the nearby list, which needs a scroll side effect and is
// attached by the detail collector. Every key is populated; missing data
// degrades to Unavailable (or nil for the structured fields).
func (p *Parser) ParseDetail(doc Queryable, ref models.Reference) *models.Detail {
	return &models.Detail{
		URL:          ref.URL,
		Address:      extractText(doc, addressSpec),
		Phone:        extractText(doc, phoneSpec),
		Description:  extractText(doc, descriptionSpec),
		OpeningHours: extractOpeningHours(doc),
		PriceRange:   extractText(doc, priceRangeSpec),
		CuisineType:  extractText(doc, cuisineTypeSpec),
		Website:      extractWebsite(doc),
		Facilities:   extractFacilities(doc),

		Name:        ref.Name,
		Location:    ref.Location,
		Stars:       ref.Stars,
		Distinction: ref.Distinction,
	}
}

// ParseNearby extracts the capped nearby-restaurants list. Cards that fail
// to parse are skipped; they never fail the enclosing record. Returns nil
// when the section is absent or no card parsed.
func (p *Parser) ParseNearby(doc Queryable) []models.Restaurant {
	section := doc.Find("section.section-nearby-restaurants, div.nearby-restaurants").First()
	if section.Length() == 0 {
		return nil
	}

	var nearby []models.Restaurant
	section.Find("div.card__menu, a.card__menu").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(nearby) >= p.nearbyCap {
			return false
		}
		if r, ok := p.ParseCard(card); ok {
			nearby = append(nearby, r)
		}
		return true
	})

	return nearby
}

func trimmedText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return collapseSpace(sel.Text())
}
