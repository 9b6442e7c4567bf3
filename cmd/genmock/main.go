// Command genmock generates mock storm data fixtures: a deliberately messy
// raw CSV in the StormData layout and the cleaned JSON a pipeline run over
// that CSV must produce. It uses the actual domain package so the expected
// output tracks real normalization behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv-out testdata/storm_data_raw.csv \
//	  -json-out testdata/storm_data_cleaned.json
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
	"github.com/jonboulle/clockwork"
)

// fixtures covers each stage of the cascade: specific anchored rules, broad
// synonym buckets, deliberate demotions, entry errors, and residue.
var fixtures = []domain.RawRecord{
	{BeginDate: "4/27/2011 0:00:00", State: "AL", EventType: "TORNADO", Fatalities: "23", Injuries: "150", PropDamage: "1.5", PropDamageExp: "B", CropDamage: "42.5", CropDamageExp: "K"},
	{BeginDate: "6/1/1998 0:00:00", State: "TX", EventType: "TSTM WIND", Injuries: "2", PropDamage: "5", PropDamageExp: "K"},
	{BeginDate: "7/12/1995 0:00:00", State: "IL", EventType: "EXCESSIVE HEAT", Fatalities: "98", Injuries: "0"},
	{BeginDate: "9/12/2008 0:00:00", State: "TX", EventType: "Hurricane Ike", Fatalities: "12", PropDamage: "27", PropDamageExp: "B"},
	{BeginDate: "1/10/1997 0:00:00", State: "MI", EventType: "LAKE EFFECT SNOW", PropDamage: "250", PropDamageExp: "K"},
	{BeginDate: "3/2/1994 0:00:00", State: "CO", EventType: "HIGH WINDS 57", Injuries: "1"},
	{BeginDate: "5/5/1999 0:00:00", State: "OK", EventType: " Heavy Wind / High Surf   ", PropDamage: "10", PropDamageExp: "M"},
	{BeginDate: "8/1/1993 0:00:00", State: "MO", EventType: "RIVER FLOODING", PropDamage: "3", PropDamageExp: "B", CropDamage: "1", CropDamageExp: "B"},
	{BeginDate: "2/2/2000 0:00:00", State: "KY", EventType: "LIGNTNING", Fatalities: "1"},
	{BeginDate: "11/1/1994 0:00:00", State: "CA", EventType: "BEACH EROSION", PropDamage: "100", PropDamageExp: "K"},
	{BeginDate: "6/3/1996 0:00:00", State: "KS", EventType: "MONTHLY SUMMARY"},
	{BeginDate: "6/3/1996 0:00:00", State: "KS", EventType: "Summary of June 3"},
	{BeginDate: "4/1/1995 0:00:00", State: "ND", EventType: "MILD PATTERN"},
	{BeginDate: "10/9/2001 0:00:00", State: "FL", EventType: "Frost/Freeze", CropDamage: "5", CropDamageExp: "M"},
	{BeginDate: "12/25/2002 0:00:00", State: "WA", EventType: "gusty winds", PropDamage: "2.5", PropDamageExp: "H"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvOut := flag.String("csv-out", "", "output path for the raw CSV fixture")
	jsonOut := flag.String("json-out", "", "output path for the expected cleaned JSON fixture")
	flag.Parse()

	if *csvOut == "" || *jsonOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -json-out")
	}

	// Fix the clock so ProcessedAt timestamps are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2012, time.May, 15, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	cleaned := make([]domain.CleanedEvent, 0, len(fixtures))
	for _, rec := range fixtures {
		cleaned = append(cleaned, domain.CleanEvent(rec))
	}

	if err := writeCSV(*csvOut, fixtures); err != nil {
		return fmt.Errorf("writing raw CSV fixture: %w", err)
	}
	log.Printf("wrote raw CSV fixture: %s (%d rows)", *csvOut, len(fixtures))

	if err := writeJSON(*jsonOut, cleaned); err != nil {
		return fmt.Errorf("writing cleaned JSON fixture: %w", err)
	}
	log.Printf("wrote cleaned JSON fixture: %s", *jsonOut)

	printCategoryCounts(cleaned)
	return nil
}

func writeCSV(path string, recs []domain.RawRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"BGN_DATE", "STATE", "EVTYPE",
		"FATALITIES", "INJURIES",
		"PROPDMG", "PROPDMGEXP", "CROPDMG", "CROPDMGEXP",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{
			r.BeginDate, r.State, r.EventType,
			r.Fatalities, r.Injuries,
			r.PropDamage, r.PropDamageExp, r.CropDamage, r.CropDamageExp,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printCategoryCounts(cleaned []domain.CleanedEvent) {
	counts := map[domain.Category]int{}
	for _, e := range cleaned {
		counts[e.Category]++
	}
	fmt.Println("\n=== Category counts for test assertions ===")
	for cat, n := range counts {
		fmt.Printf("  %-22s %d\n", cat, n)
	}
}
