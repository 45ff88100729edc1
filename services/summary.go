package services

import (
	"fmt"
	"sort"
	"strings"

	"michelin-scraper/models"
	"michelin-scraper/utils"
)

type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

func (s *SummaryService) GenerateListing(restaurants []models.Restaurant) *models.ListingReport {
	report := &models.ListingReport{
		ByStars:    make(map[int]int),
		ByLocation: make(map[string]int),
	}

	if len(restaurants) == 0 {
		return report
	}

	report.Total = len(restaurants)

	for _, r := range restaurants {
		if r.Stars > 0 {
			report.Starred++
			report.ByStars[r.Stars]++
		}
		if r.Distinction == "Bib Gourmand" {
			report.BibGourmand++
		}
		if r.Location != "" && r.Location != models.Unavailable {
			report.ByLocation[r.Location]++
		}
	}

	return report
}

func (s *SummaryService) PrintListing(r *models.ListingReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🍽  MICHELIN LISTING SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total restaurants   : \033[1m%d\033[0m\n", r.Total)
	fmt.Printf("  Starred restaurants : \033[1m%d\033[0m\n", r.Starred)
	for _, stars := range []int{3, 2, 1} {
		if count := r.ByStars[stars]; count > 0 {
			fmt.Printf("    %d star : %d\n", stars, count)
		}
	}
	fmt.Printf("  Bib Gourmand        : \033[1m%d\033[0m\n", r.BibGourmand)
	fmt.Println()

	fmt.Printf("\033[1;33m  Top 10 Cities\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ByLocation) == 0 {
		fmt.Printf("  No location data\n")
	} else {
		type locCount struct {
			loc   string
			count int
		}
		var locs []locCount
		for loc, cnt := range r.ByLocation {
			locs = append(locs, locCount{loc, cnt})
		}
		sort.Slice(locs, func(i, j int) bool {
			if locs[i].count != locs[j].count {
				return locs[i].count > locs[j].count
			}
			return locs[i].loc < locs[j].loc
		})
		if len(locs) > 10 {
			locs = locs[:10]
		}
		for _, lc := range locs {
			bar := strings.Repeat("█", lc.count)
			fmt.Printf("  %-30s %s (%d)\n", truncate(lc.loc, 28), bar, lc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func (s *SummaryService) GenerateDetail(results []models.DetailResult) *models.DetailReport {
	report := &models.DetailReport{Total: len(results)}

	for _, res := range results {
		if res.Failed() {
			report.Failed++
			continue
		}
		d := res.Detail
		if d.Phone != models.Unavailable {
			report.WithPhone++
		}
		if d.Address != models.Unavailable {
			report.WithAddress++
		}
		if d.Description != models.Unavailable {
			report.WithDescription++
		}
		if d.Website != models.Unavailable {
			report.WithWebsite++
		}
	}

	return report
}

func (s *SummaryService) PrintDetail(r *models.DetailReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📋 DETAIL SCRAPE SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("  Total restaurants : \033[1m%d\033[0m\n", r.Total)
	fmt.Printf("  Failed pages      : \033[1m%d\033[0m\n", r.Failed)
	fmt.Println()

	fmt.Printf("\033[1;33m  Data Completeness\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.Total == 0 {
		fmt.Printf("  No results\n")
	} else {
		printCompleteness("Phone numbers", r.WithPhone, r.Total)
		printCompleteness("Addresses", r.WithAddress, r.Total)
		printCompleteness("Descriptions", r.WithDescription, r.Total)
		printCompleteness("Websites", r.WithWebsite, r.Total)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func printCompleteness(label string, count, total int) {
	fmt.Printf("  %-14s: %d/%d (%.1f%%)\n", label, count, total,
		float64(count)/float64(total)*100)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
