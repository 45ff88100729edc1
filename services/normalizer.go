package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"michelin-scraper/models"
	"michelin-scraper/utils"
)

// FacilitiesSeparator joins the flat facilities list in tabular exports.
const FacilitiesSeparator = "; "

// ListingHeader is the fixed column order for the listing export. The
// detail export cannot use a fixed order because degraded error records
// carry a different key set, so its header is computed per batch.
var ListingHeader = []string{"name", "url", "stars", "distinction", "location", "price", "cuisine"}

// Normalizer flattens records into export-safe rows. Mapping fields encode
// to canonical JSON (stable key order), short flat lists join on a
// delimiter, structured sub-record lists encode to JSON. The encodings are
// chosen field-by-field per the schema, never inferred from the value.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// ListingRow flattens one restaurant in ListingHeader order.
func (n *Normalizer) ListingRow(r models.Restaurant) []string {
	return []string{
		r.Name,
		r.URL,
		strconv.Itoa(r.Stars),
		r.Distinction,
		r.Location,
		r.Price,
		r.Cuisine,
	}
}

// DetailHeader computes the export header for a batch of detail results:
// the sorted union of keys across all records, so that successful and
// degraded records share one reproducible layout.
func (n *Normalizer) DetailHeader(results []models.DetailResult) []string {
	union := make(map[string]struct{})
	for _, r := range results {
		for key := range r.Fields() {
			union[key] = struct{}{}
		}
	}

	header := make([]string, 0, len(union))
	for key := range union {
		header = append(header, key)
	}
	sort.Strings(header)

	n.logger.Debug("[normalizer] Export header: %d columns over %d records", len(header), len(results))
	return header
}

// DetailRow flattens one detail result against the batch header. Keys the
// record does not carry (the error column on successes, schema columns on
// degraded records) render as empty cells.
func (n *Normalizer) DetailRow(header []string, r models.DetailResult) []string {
	fields := r.Fields()

	row := make([]string, len(header))
	for i, key := range header {
		val, ok := fields[key]
		if !ok {
			continue
		}
		row[i] = flattenValue(val)
	}
	return row
}

// flattenValue encodes one field value for a tabular cell.
func flattenValue(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case map[string]string:
		return EncodeHours(v)
	case []string:
		return JoinFacilities(v)
	case []models.Restaurant:
		return EncodeNearby(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// EncodeHours renders the day→hours mapping as canonical JSON. Key order is
// stable (lexicographic) so repeated runs produce identical cells.
func EncodeHours(hours map[string]string) string {
	return marshalCompact(hours)
}

// DecodeHours parses an EncodeHours cell back into the mapping.
func DecodeHours(s string) (map[string]string, error) {
	var hours map[string]string
	if err := json.Unmarshal([]byte(s), &hours); err != nil {
		return nil, fmt.Errorf("normalizer: decode hours: %w", err)
	}
	return hours, nil
}

// JoinFacilities renders the flat facilities list on the export delimiter.
func JoinFacilities(facilities []string) string {
	return strings.Join(facilities, FacilitiesSeparator)
}

// SplitFacilities reverses JoinFacilities. Elements containing the
// delimiter themselves do not round-trip; the source site does not produce
// such labels.
func SplitFacilities(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, FacilitiesSeparator)
}

// EncodeNearby renders the structured nearby list as canonical JSON.
func EncodeNearby(nearby []models.Restaurant) string {
	return marshalCompact(nearby)
}

// DecodeNearby parses an EncodeNearby cell back into the list.
func DecodeNearby(s string) ([]models.Restaurant, error) {
	var nearby []models.Restaurant
	if err := json.Unmarshal([]byte(s), &nearby); err != nil {
		return nil, fmt.Errorf("normalizer: decode nearby: %w", err)
	}
	return nearby, nil
}

// marshalCompact encodes without HTML escaping so URLs and non-ASCII text
// stay readable in the export.
func marshalCompact(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}
