package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fortuna/cdlstats/internal/scraper/breakingpoint"
)

// Manual check that the live BreakingPoint page still matches the column table
func main() {
	logger := log.NewWithOptions(os.Stdout, log.Options{ReportTimestamp: true, Prefix: "bp-scrape"})
	logger.Info("Testing BreakingPoint scraper")
	logger.Info("===============================")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetcher := breakingpoint.NewChromeFetcher(logger)

	logger.Info("1. Fetching rendered stats page...")
	htmlContent, err := fetcher.Fetch(ctx, breakingpoint.FetchRequest{
		URL:      breakingpoint.SourceURL,
		Selector: "table",
		Marker:   breakingpoint.MarkerHeader,
		Timeout:  breakingpoint.DefaultWaitTimeout,
	})
	if err != nil {
		logger.Fatal("Failed to fetch stats page", "err", err)
	}
	logger.Infof("✓ Retrieved HTML content (%d bytes)", len(htmlContent))

	logger.Info("2. Parsing stats table...")
	doc, err := breakingpoint.ParseHTML(htmlContent)
	if err != nil {
		logger.Fatal("Failed to parse HTML", "err", err)
	}

	extraction := &breakingpoint.Extraction{
		SourceURL: breakingpoint.SourceURL,
		ScrapedAt: time.Now().UTC(),
		Rows:      breakingpoint.ParseTable(doc),
	}
	records := extraction.Records()
	logger.Infof("✓ Parsed %d records", len(records))

	for _, skipped := range extraction.Skipped() {
		logger.Warn("Skipped row", "row", skipped.Index, "cells", skipped.Cells, "reason", skipped.Reason)
	}

	for i, rec := range records {
		if i == 5 {
			break
		}
		logger.Infof("  %s %-12s K/D %.2f  HP %.2f  SND %.2f  CTL %.2f",
			rec.Rank, rec.PlayerName, rec.KD.Float64, rec.HPKD.Float64, rec.SNDKD.Float64, rec.CTLKD.Float64)
	}

	logger.Info("===============================")
	logger.Info("✓ BreakingPoint Scraper Test Complete")
}
