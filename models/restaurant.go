package models

import "encoding/json"

// Unavailable marks a field whose locators all missed. It is a real value,
// distinct from the empty string, and every schema key is always populated
// with it rather than omitted.
const Unavailable = "N/A"

// Restaurant is one entity as seen on a listing page. It doubles as the
// reduced schema for nearby-restaurant cards on detail pages.
type Restaurant struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Stars       int    `json:"stars"`
	Distinction string `json:"distinction"`
	Location    string `json:"location"`
	Price       string `json:"price"`
	Cuisine     string `json:"cuisine"`
}

// Reference is the minimal handle to a previously discovered restaurant,
// read back from the listing export. URL is the identity key; the remaining
// fields are carried into the detail record unchanged.
type Reference struct {
	Name        string
	URL         string
	Location    string
	Stars       int
	Distinction string
}

// Detail is one restaurant's full page. String fields hold Unavailable when
// extraction missed; OpeningHours/Facilities/Nearby are nil in that case and
// rendered as Unavailable on export.
type Detail struct {
	URL          string
	Address      string
	Phone        string
	Description  string
	OpeningHours map[string]string
	PriceRange   string
	CuisineType  string
	Website      string
	Facilities   []string
	Nearby       []Restaurant

	// Carried over from the listing row.
	Name        string
	Location    string
	Stars       int
	Distinction string
}

// DetailResult is either a fully keyed Detail or a degraded {url, error}
// variant when the page could not be loaded or parsed at all. The two key
// sets never mix: a failed result carries none of the schema fields.
type DetailResult struct {
	URL    string
	Detail *Detail
	Err    string
}

// Failed reports whether this result degraded to the {url, error} variant.
func (r DetailResult) Failed() bool {
	return r.Detail == nil
}

// Fields returns the exportable key→value form of the result. Successful
// results always contain the full detail key set; failed results contain
// exactly url and error.
func (r DetailResult) Fields() map[string]any {
	if r.Failed() {
		return map[string]any{
			"url":   r.URL,
			"error": r.Err,
		}
	}

	d := r.Detail
	fields := map[string]any{
		"url":          d.URL,
		"address":      d.Address,
		"phone":        d.Phone,
		"description":  d.Description,
		"price_range":  d.PriceRange,
		"cuisine_type": d.CuisineType,
		"website":      d.Website,
		"name":         d.Name,
		"location":     d.Location,
		"stars":        d.Stars,
		"distinction":  d.Distinction,
	}

	if d.OpeningHours != nil {
		fields["opening_hours"] = d.OpeningHours
	} else {
		fields["opening_hours"] = Unavailable
	}
	if d.Facilities != nil {
		fields["facilities"] = d.Facilities
	} else {
		fields["facilities"] = Unavailable
	}
	if d.Nearby != nil {
		fields["nearby_restaurants"] = d.Nearby
	} else {
		fields["nearby_restaurants"] = Unavailable
	}

	return fields
}

// MarshalJSON exports the result through Fields so that the JSON artifact
// matches the tabular one key-for-key.
func (r DetailResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}

// ListingReport holds the computed summary over the collected listings.
type ListingReport struct {
	Total       int
	Starred     int
	ByStars     map[int]int
	BibGourmand int
	ByLocation  map[string]int
}

// DetailReport holds completeness statistics over the detail results.
type DetailReport struct {
	Total           int
	Failed          int
	WithPhone       int
	WithAddress     int
	WithDescription int
	WithWebsite     int
}
