// Command analyze runs a one-shot impact analysis over a local StormData CSV
// file (optionally gzip-compressed) and prints the ranked health and
// financial report views, answering which event categories are most harmful
// to population health and which have the greatest economic consequences.
//
// Usage:
//
//	go run ./cmd/analyze -csv data/StormData.csv.gz -top 10
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/couchcryptid/storm-impact-report/internal/adapter/csvfile"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/couchcryptid/storm-impact-report/internal/report"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvPath := flag.String("csv", "", "path to a StormData CSV file (.csv or .csv.gz)")
	topN := flag.Int("top", 10, "number of categories per view (0 for all)")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -csv")
	}

	logger := slog.New(slog.DiscardHandler)
	loader := csvfile.NewLoader(*csvPath, logger)
	defer loader.Close()

	cached := csvfile.NewCachedExtractor(loader, logger)
	raws, err := cached.ReadAll(context.Background())
	if err != nil {
		return fmt.Errorf("load %s: %w", *csvPath, err)
	}

	acc := report.NewAccumulator()
	var parseErrors int
	for _, raw := range raws {
		rec, err := domain.ParseRawEvent(raw)
		if err != nil {
			parseErrors++
			continue
		}
		acc.Add(domain.CleanEvent(rec))
	}

	total, unclassifiable := acc.Counts()
	fmt.Printf("Rows: %d total, %d unclassifiable, %d parse errors\n\n",
		total, unclassifiable, parseErrors)

	summaries := acc.Summaries()
	printHealthView(summaries, *topN)
	printFinancialView(summaries, *topN)
	printSeverity(summaries, *topN)
	return nil
}

func printHealthView(summaries []report.CategorySummary, topN int) {
	fmt.Println("=== Population Health Impact ===")
	fmt.Printf("%-22s %10s %10s %8s\n", "Category", "Fatalities", "Injuries", "Events")
	for _, s := range report.TopN(report.HealthView(summaries), topN) {
		fmt.Printf("%-22s %10d %10d %8d\n", s.Category, s.Fatalities, s.Injuries, s.Events)
	}
	fmt.Println()
}

func printFinancialView(summaries []report.CategorySummary, topN int) {
	fmt.Println("=== Economic Impact ===")
	fmt.Printf("%-22s %14s %14s %8s\n", "Category", "Property", "Crop", "Events")
	for _, s := range report.TopN(report.FinancialView(summaries), topN) {
		fmt.Printf("%-22s %14s %14s %8d\n",
			s.Category, formatUSD(s.PropertyDamageUSD), formatUSD(s.CropDamageUSD), s.Events)
	}
	fmt.Println()
}

func printSeverity(summaries []report.CategorySummary, topN int) {
	ranks := report.SeverityScores(summaries)
	if topN > 0 && topN < len(ranks) {
		ranks = ranks[:topN]
	}
	fmt.Println("=== Composite Severity ===")
	fmt.Printf("%-22s %7s\n", "Category", "Score")
	for _, r := range ranks {
		fmt.Printf("%-22s %7.1f\n", r.Category.Category, r.Score)
	}
}

// formatUSD renders dollar amounts with a compact magnitude suffix.
func formatUSD(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
