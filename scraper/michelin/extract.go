package michelin

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"michelin-scraper/models"
)

// Queryable is the query-by-locator surface a field extractor runs against.
// Both *goquery.Document and *goquery.Selection satisfy it, which lets tests
// wrap a scope to observe which strategies were evaluated.
type Queryable interface {
	Find(selector string) *goquery.Selection
}

// Strategy is one declarative locator: a CSS selector plus an optional
// attribute to read instead of the element text.
type Strategy struct {
	Selector string
	Attr     string
}

// FieldSpec is an ordered list of locator strategies for one named field.
// Strategies are tried in declared order; the first one yielding a non-empty
// match wins and later strategies are never evaluated.
type FieldSpec struct {
	Name       string
	Strategies []Strategy
}

// extractText runs the fallback chain and returns the trimmed value of the
// first matching strategy, or the Unavailable sentinel when every strategy
// missed.
func extractText(scope Queryable, spec FieldSpec) string {
	for _, st := range spec.Strategies {
		sel := scope.Find(st.Selector).First()
		if sel.Length() == 0 {
			continue
		}

		var raw string
		if st.Attr != "" {
			val, ok := sel.Attr(st.Attr)
			if !ok {
				continue
			}
			raw = val
		} else {
			raw = sel.Text()
		}

		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			return trimmed
		}
	}
	return models.Unavailable
}

// extractAwards derives the star count and distinction label from the award
// icons inside the card's distinction block. A bib-gourmand icon overrides
// the displayed label but not the stored numeric star count.
func extractAwards(scope Queryable) (stars int, distinction string) {
	distinction = "None"

	block := scope.Find("div.card__menu-content--distinction").First()
	if block.Length() == 0 {
		return 0, distinction
	}

	hasBib := false
	block.Find("img.michelin-award").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		switch {
		case strings.Contains(src, "1star"):
			stars++
		case strings.Contains(src, "bib-gourmand"):
			hasBib = true
		}
	})

	switch {
	case hasBib:
		distinction = "Bib Gourmand"
	case stars > 0:
		distinction = pluralStars(stars)
	}
	return stars, distinction
}

func pluralStars(n int) string {
	switch n {
	case 1:
		return "1 star"
	case 2:
		return "2 star"
	default:
		return "3 star"
	}
}

// splitPriceCuisine splits the composite "price · cuisine" footer text on
// the middle-dot delimiter. Without the delimiter the whole text is the
// cuisine and the price is unavailable. This mirrors the source site's
// rendering and must not be "fixed": changing it changes observable output.
func splitPriceCuisine(text string) (price, cuisine string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Unavailable, models.Unavailable
	}

	if !strings.Contains(text, "·") {
		return models.Unavailable, text
	}

	parts := strings.SplitN(text, "·", 2)
	price = strings.TrimSpace(parts[0])
	cuisine = strings.TrimSpace(parts[1])
	if price == "" {
		price = models.Unavailable
	}
	if cuisine == "" {
		cuisine = models.Unavailable
	}
	return price, cuisine
}

// extractWebsite finds the first external anchor that is not a Michelin,
// maps, or telephone link and returns its href.
func extractWebsite(scope Queryable) string {
	website := models.Unavailable

	scope.Find("a[href^='http']").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		lower := strings.ToLower(href)
		if strings.Contains(lower, "michelin") ||
			strings.Contains(lower, "maps") ||
			strings.Contains(lower, "tel:") {
			return true
		}
		website = href
		return false
	})

	return website
}

// extractOpeningHours walks the bordered day cards and builds the day→hours
// mapping. Returns nil when no complete card is present.
func extractOpeningHours(scope Queryable) map[string]string {
	var hours map[string]string

	scope.Find("div.card-borderline").Each(func(_ int, card *goquery.Selection) {
		day := strings.TrimSpace(card.Find("div.card--title").First().Text())
		slot := strings.TrimSpace(card.Find("div.card--content").First().Text())
		if day == "" || slot == "" {
			return
		}
		if hours == nil {
			hours = make(map[string]string)
		}
		hours[day] = slot
	})

	return hours
}

// facilityHeaders are section labels that render inside the services block
// and must not be reported as facilities.
var facilityHeaders = map[string]struct{}{
	"OPENING HOURS":         {},
	"Opening hours":         {},
	"FACILITIES & SERVICES": {},
	"Facilities & Services": {},
}

// extractFacilities collects the facilities/services list. Returns nil when
// the section is absent or empty.
func extractFacilities(scope Queryable) []string {
	section := scope.Find("div.restaurant-details__services").First()
	if section.Length() == 0 {
		return nil
	}

	var facilities []string
	section.Find("li, div.service-item").Each(func(_ int, item *goquery.Selection) {
		text := strings.TrimSpace(item.Text())
		if text == "" {
			return
		}
		if _, skip := facilityHeaders[text]; skip {
			return
		}
		facilities = append(facilities, text)
	})

	return facilities
}

// collapseSpace trims and collapses internal whitespace, which goquery text
// nodes accumulate from the site's markup.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveURL makes a possibly relative href absolute against the guide base.
func resolveURL(base, href string) string {
	if href == "" || href == models.Unavailable {
		return models.Unavailable
	}

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
