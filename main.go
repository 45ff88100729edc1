package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"michelin-scraper/browser"
	"michelin-scraper/config"
	"michelin-scraper/scraper/michelin"
	"michelin-scraper/services"
	"michelin-scraper/storage"
	"michelin-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	stage := flag.String("stage", "both", "which stage to run: listing, details, or both")
	maxPages := flag.Int("max-pages", cfg.MaxPages, "page ceiling for the listing stage")
	start := flag.Int("start", 0, "batch start offset for the details stage")
	limit := flag.Int("limit", 0, "batch size limit for the details stage (0 = all)")
	noHeadless := flag.Bool("no-headless", false, "run the browser visibly for debugging")
	flag.Parse()

	cfg.MaxPages = *maxPages
	if *noHeadless {
		cfg.Headless = false
	}

	if *stage != "listing" && *stage != "details" && *stage != "both" {
		logger.Error("Unknown stage %q — expected listing, details, or both", *stage)
		os.Exit(1)
	}

	logger.Info("=== Michelin Guide Scraping System starting ===")
	logger.Info("Config — stage: %s | pages: %d | start: %d | limit: %d | headless: %v",
		*stage, cfg.MaxPages, *start, *limit, cfg.Headless)

	if *stage == "listing" || *stage == "both" {
		if err := runListingStage(cfg, logger); err != nil {
			logger.Error("Listing stage failed: %v", err)
			os.Exit(1)
		}
	}

	if *stage == "details" || *stage == "both" {
		if err := runDetailStage(cfg, logger, *start, *limit); err != nil {
			logger.Error("Detail stage failed: %v", err)
			if *stage == "both" {
				logger.Info("Note: listing data from stage 1 was still saved.")
			}
			os.Exit(1)
		}
	}

	fmt.Printf("  Done. Listings → %s | Details → %s\n\n",
		cfg.ListingCSVPath, cfg.DetailCSVPath)
}

// runListingStage collects the paginated listings and exports them to JSON,
// CSV, and optionally PostgreSQL.
func runListingStage(cfg *config.Config, logger *utils.Logger) error {
	session, err := browser.NewSession(cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	collector := michelin.NewListingCollector(cfg, logger, session)
	restaurants := collector.Collect(context.Background())
	if len(restaurants) == 0 {
		return fmt.Errorf("no restaurants were scraped")
	}

	if err := storage.SaveJSON(cfg.ListingJSONPath, restaurants); err != nil {
		logger.Error("JSON write failed: %v", err)
	} else {
		logger.Info("Listings saved to %s", cfg.ListingJSONPath)
	}

	norm := services.NewNormalizer(logger)
	csvWriter, err := storage.NewListingCSVWriter(cfg.ListingCSVPath, norm)
	if err != nil {
		return err
	}
	defer csvWriter.Close()

	if err := csvWriter.Write(restaurants); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Listings saved to %s", cfg.ListingCSVPath)
	}

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Make sure Docker is running: docker compose up -d")
			return err
		}
		defer pgWriter.Close()

		if err := pgWriter.Write(restaurants); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Listings stored in PostgreSQL (table: restaurants)")
		}
	}

	summary := services.NewSummaryService(logger)
	summary.PrintListing(summary.GenerateListing(restaurants))

	logger.Info("Stage 1 completed: %d restaurants scraped", len(restaurants))
	return nil
}

// runDetailStage reads the listing CSV back, scrapes the detail window, and
// exports whatever accumulated, partial or not.
func runDetailStage(cfg *config.Config, logger *utils.Logger, start, limit int) error {
	refs, err := storage.ReadReferences(cfg.ListingCSVPath)
	if err != nil {
		return fmt.Errorf("read references (run the listing stage first): %w", err)
	}
	if len(refs) == 0 {
		return fmt.Errorf("no usable references in %s", cfg.ListingCSVPath)
	}
	logger.Info("Loaded %d references from %s", len(refs), cfg.ListingCSVPath)

	session, err := browser.NewSession(cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	collector := michelin.NewDetailCollector(cfg, logger, session)
	results := collector.Run(context.Background(), refs, start, limit)
	if len(results) == 0 {
		return fmt.Errorf("no restaurant details collected")
	}

	if err := storage.SaveJSON(cfg.DetailJSONPath, results); err != nil {
		logger.Error("JSON write failed: %v", err)
	} else {
		logger.Info("Details saved to %s", cfg.DetailJSONPath)
	}

	norm := services.NewNormalizer(logger)
	csvWriter, err := storage.NewDetailCSVWriter(cfg.DetailCSVPath, norm)
	if err != nil {
		return err
	}
	defer csvWriter.Close()

	if err := csvWriter.Write(results); err != nil {
		logger.Error("CSV write failed: %v", err)
	} else {
		logger.Info("Details saved to %s", cfg.DetailCSVPath)
	}

	summary := services.NewSummaryService(logger)
	summary.PrintDetail(summary.GenerateDetail(results))

	logger.Info("Stage 2 completed: %d restaurants scraped in detail", len(results))
	return nil
}
