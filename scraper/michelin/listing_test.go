package michelin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListingCollectorStopsOnZeroNewPage(t *testing.T) {
	cfg := testConfig()
	base := cfg.ListingURL

	nav := &fakeNavigator{pages: map[string]string{
		// 3 new, 2 new (one overlap), 0 new (all overlaps).
		base: listingPage(
			cardHTML("Sorn", "/th/en/restaurant/sorn", "Bangkok", "฿฿฿฿ · Southern Thai", 3, false),
			cardHTML("Le Du", "/th/en/restaurant/le-du", "Bangkok", "฿฿฿ · Thai", 1, false),
			cardHTML("Nusara", "/th/en/restaurant/nusara", "Bangkok", "฿฿฿ · Thai", 2, false),
		),
		base + "/page/2": listingPage(
			cardHTML("Nusara", "/th/en/restaurant/nusara", "Bangkok", "฿฿฿ · Thai", 2, false),
			cardHTML("Potong", "/th/en/restaurant/potong", "Bangkok", "฿฿฿ · Thai-Chinese", 1, false),
			cardHTML("Baan Tepa", "/th/en/restaurant/baan-tepa", "Bangkok", "฿฿฿ · Thai", 1, false),
		),
		base + "/page/3": listingPage(
			cardHTML("Sorn", "/th/en/restaurant/sorn", "Bangkok", "฿฿฿฿ · Southern Thai", 3, false),
			cardHTML("Le Du", "/th/en/restaurant/le-du", "Bangkok", "฿฿฿ · Thai", 1, false),
		),
		base + "/page/4": listingPage(
			cardHTML("Never Reached", "/th/en/restaurant/never", "Bangkok", "฿ · Thai", 0, false),
		),
	}}

	c := NewListingCollector(cfg, testLogger(), nav)
	got := c.Collect(context.Background())

	require.Len(t, got, 5, "pages [3 new, 2 new, 0 new] aggregate to 5 records")
	require.Len(t, nav.navigated, 3, "pagination stops after the zero-new page")
}

func TestListingCollectorDedupIdempotent(t *testing.T) {
	cfg := testConfig()
	base := cfg.ListingURL

	// Adjacent pages render overlapping result sets; the same two names
	// appear on both pages.
	overlap := listingPage(
		cardHTML("Sorn", "/th/en/restaurant/sorn", "Bangkok", "฿฿฿฿ · Southern Thai", 3, false),
		cardHTML("Le Du", "/th/en/restaurant/le-du", "Bangkok", "฿฿฿ · Thai", 1, false),
	)
	nav := &fakeNavigator{pages: map[string]string{
		base:             overlap,
		base + "/page/2": overlap,
	}}

	c := NewListingCollector(cfg, testLogger(), nav)
	got := c.Collect(context.Background())

	names := make(map[string]int)
	for _, r := range got {
		names[r.Name]++
	}
	require.Len(t, got, 2, "result cardinality equals distinct names across pages")
	for name, count := range names {
		require.Equal(t, 1, count, "name %q must appear exactly once", name)
	}
}

func TestListingCollectorFirstOccurrenceWins(t *testing.T) {
	cfg := testConfig()
	base := cfg.ListingURL

	nav := &fakeNavigator{pages: map[string]string{
		base: listingPage(
			cardHTML("Sorn", "/th/en/restaurant/sorn", "Bangkok", "฿฿฿฿ · Southern Thai", 3, false),
		),
		base + "/page/2": listingPage(
			cardHTML("Sorn", "/th/en/restaurant/sorn-duplicate", "Phuket", "฿ · Seafood", 0, false),
			cardHTML("Potong", "/th/en/restaurant/potong", "Bangkok", "฿฿฿ · Thai-Chinese", 1, false),
		),
	}}

	c := NewListingCollector(cfg, testLogger(), nav)
	got := c.Collect(context.Background())

	require.Equal(t, "Sorn", got[0].Name)
	require.Equal(t, "Bangkok", got[0].Location, "the first occurrence of a name wins")
	require.Equal(t, "https://guide.example.com/th/en/restaurant/sorn", got[0].URL)
}

func TestListingCollectorPageLoadFailureTerminates(t *testing.T) {
	cfg := testConfig()
	base := cfg.ListingURL

	nav := &fakeNavigator{
		pages: map[string]string{
			base: listingPage(
				cardHTML("Sorn", "/th/en/restaurant/sorn", "Bangkok", "฿฿฿฿ · Southern Thai", 3, false),
			),
			base + "/page/3": listingPage(
				cardHTML("Never Reached", "/th/en/restaurant/never", "Bangkok", "฿ · Thai", 0, false),
			),
		},
		failNavigate: map[string]bool{base + "/page/2": true},
	}

	c := NewListingCollector(cfg, testLogger(), nav)
	got := c.Collect(context.Background())

	require.Len(t, got, 1, "a failed page terminates pagination but keeps prior results")
	require.Len(t, nav.navigated, 2)
}

func TestListingCollectorWaitTimeoutTreatedAsEmptyPage(t *testing.T) {
	cfg := testConfig()

	// Page 2 navigates fine but never renders cards: WaitFor times out.
	nav := &fakeNavigator{pages: map[string]string{
		cfg.ListingURL: listingPage(
			cardHTML("Sorn", "/th/en/restaurant/sorn", "Bangkok", "฿฿฿฿ · Southern Thai", 3, false),
		),
	}}

	c := NewListingCollector(cfg, testLogger(), nav)
	got := c.Collect(context.Background())

	require.Len(t, got, 1)
}

func TestListingCollectorHonorsPageCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPages = 2
	base := cfg.ListingURL

	nav := &fakeNavigator{pages: map[string]string{
		base: listingPage(
			cardHTML("Sorn", "/th/en/restaurant/sorn", "Bangkok", "฿฿฿฿ · Southern Thai", 3, false),
		),
		base + "/page/2": listingPage(
			cardHTML("Le Du", "/th/en/restaurant/le-du", "Bangkok", "฿฿฿ · Thai", 1, false),
		),
		base + "/page/3": listingPage(
			cardHTML("Never Reached", "/th/en/restaurant/never", "Bangkok", "฿ · Thai", 0, false),
		),
	}}

	c := NewListingCollector(cfg, testLogger(), nav)
	got := c.Collect(context.Background())

	require.Len(t, got, 2)
	require.Len(t, nav.navigated, 2, "the ceiling bounds pagination even with results remaining")
}
