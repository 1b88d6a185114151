// Command validate audits a published master dataset against the city
// reference file. It checks the header, reference consistency, condition
// labels, date range, ordering and uniqueness, and per-city coverage, and
// exits non-zero if any phase fails.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -master data/turkey_weather_master.csv \
//	  -reference data/locations.csv
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/couchcryptid/turkey-weather-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
)

// maxErrorsPerPhase caps the detail printed for a badly broken file.
const maxErrorsPerPhase = 20

// phase tracks pass/fail for a validation phase.
type phase struct {
	name    string
	errors  []string
	dropped int
}

func (p *phase) errorf(format string, args ...any) {
	if len(p.errors) >= maxErrorsPerPhase {
		p.dropped++
		return
	}
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	masterPath := flag.String("master", "", "path to the master dataset CSV")
	referencePath := flag.String("reference", "", "path to the city reference CSV")
	expected := flag.Int("expected-cities", 81, "number of cities the reference must contain")
	tz := flag.String("tz", "Europe/Istanbul", "shard time zone that decides the current day")
	flag.Parse()

	if *masterPath == "" || *referencePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -tz: %v\n", err)
		os.Exit(1)
	}

	if code := run(os.Stdout, *masterPath, *referencePath, *expected, time.Now(), loc); code != 0 {
		os.Exit(code)
	}
}

// masterRow is one parsed data line of the master file.
type masterRow struct {
	line      int
	date      time.Time
	city      string
	label     string
	lat, lon  float64
	outlier   bool
	parseErrs []string
}

func run(w io.Writer, masterPath, referencePath string, expected int, now time.Time, loc *time.Location) int {
	fmt.Fprintln(w, "=== Master Dataset Validation ===")
	fmt.Fprintln(w)

	cities, err := csvfile.LoadReference(referencePath, expected)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load reference: %v\n", err)
		return 1
	}

	header, rows, err := loadMaster(masterPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load master: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateHeader(header),
		validateParse(rows),
		validateReference(rows, cities),
		validateLabels(rows),
		validateDates(rows, domain.DefaultRules(now, loc).MaxDate),
		validateOrdering(rows, cities),
		validateCoverage(rows, cities),
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors)+p.dropped)
			allPassed = false
		}
		fmt.Fprintf(w, "  %-32s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rows: %d, cities in reference: %d\n", len(rows), cities.Len())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		if p.dropped > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", p.dropped)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadMaster(path string) ([]string, []masterRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var rows []masterRow
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := r.FieldPos(0)
		rows = append(rows, parseRow(line, rec))
	}
	return header, rows, nil
}

func parseRow(line int, rec []string) masterRow {
	row := masterRow{line: line}
	if len(rec) < len(csvfile.MasterColumns) {
		row.parseErrs = append(row.parseErrs, fmt.Sprintf("%d fields, want at least %d", len(rec), len(csvfile.MasterColumns)))
		return row
	}
	var err error
	if row.date, err = time.Parse(domain.DateLayout, rec[0]); err != nil {
		row.parseErrs = append(row.parseErrs, fmt.Sprintf("date %q", rec[0]))
	}
	row.city = rec[1]
	if v, err := strconv.ParseFloat(rec[2], 64); err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		row.parseErrs = append(row.parseErrs, fmt.Sprintf("max_temperature %q", rec[2]))
	}
	row.label = rec[3]
	if row.lat, err = strconv.ParseFloat(rec[4], 64); err != nil {
		row.parseErrs = append(row.parseErrs, fmt.Sprintf("latitude %q", rec[4]))
	}
	if row.lon, err = strconv.ParseFloat(rec[5], 64); err != nil {
		row.parseErrs = append(row.parseErrs, fmt.Sprintf("longitude %q", rec[5]))
	}
	if row.outlier, err = strconv.ParseBool(rec[6]); err != nil {
		row.parseErrs = append(row.parseErrs, fmt.Sprintf("outlier %q", rec[6]))
	}
	return row
}

// ── Phases ──

func validateHeader(header []string) *phase {
	p := &phase{name: "Header"}
	if len(header) < len(csvfile.MasterColumns) || !slices.Equal(header[:len(csvfile.MasterColumns)], csvfile.MasterColumns) {
		p.errorf("header %v does not start with %v", header, csvfile.MasterColumns)
	}
	return p
}

func validateParse(rows []masterRow) *phase {
	p := &phase{name: "Field types"}
	for _, r := range rows {
		for _, e := range r.parseErrs {
			p.errorf("line %d: invalid %s", r.line, e)
		}
	}
	return p
}

func validateReference(rows []masterRow, cities *domain.CityRegistry) *phase {
	p := &phase{name: "Reference consistency"}
	for _, r := range rows {
		if len(r.parseErrs) > 0 {
			continue
		}
		c, ok := cities.Lookup(r.city)
		if !ok {
			p.errorf("line %d: unknown city %q", r.line, r.city)
			continue
		}
		if c.Latitude != r.lat || c.Longitude != r.lon {
			p.errorf("line %d: %s at (%g, %g), reference has (%g, %g)", r.line, r.city, r.lat, r.lon, c.Latitude, c.Longitude)
		}
	}
	return p
}

func validateLabels(rows []masterRow) *phase {
	p := &phase{name: "Condition labels"}
	for _, r := range rows {
		if !slices.Contains(domain.Conditions, domain.Condition(r.label)) {
			p.errorf("line %d: label %q is not one of %v", r.line, r.label, domain.Conditions)
		}
	}
	return p
}

func validateDates(rows []masterRow, today time.Time) *phase {
	p := &phase{name: "Date range"}
	for _, r := range rows {
		if r.date.IsZero() {
			continue
		}
		if r.date.Before(domain.CoverageStart) || r.date.After(today) {
			p.errorf("line %d: date %s outside %s..%s", r.line, r.date.Format(domain.DateLayout),
				domain.CoverageStart.Format(domain.DateLayout), today.Format(domain.DateLayout))
		}
	}
	return p
}

// validateOrdering requires (date, city ordinal) to strictly increase, which
// covers both the sort order and key uniqueness.
func validateOrdering(rows []masterRow, cities *domain.CityRegistry) *phase {
	p := &phase{name: "Ordering and uniqueness"}
	var prev *domain.MasterRecord
	var prevLine int
	for _, r := range rows {
		c, ok := cities.Lookup(r.city)
		if !ok || r.date.IsZero() {
			continue
		}
		cur := domain.MasterRecord{City: c, Date: r.date}
		if prev != nil {
			switch cmp := domain.CompareMaster(*prev, cur); {
			case cmp == 0:
				p.errorf("line %d: duplicate (%s, %s), first at line %d", r.line, r.city, r.date.Format(domain.DateLayout), prevLine)
			case cmp > 0:
				p.errorf("line %d: (%s, %s) sorts before line %d", r.line, r.date.Format(domain.DateLayout), r.city, prevLine)
			}
		}
		prev, prevLine = &cur, r.line
	}
	return p
}

func validateCoverage(rows []masterRow, cities *domain.CityRegistry) *phase {
	p := &phase{name: "City coverage"}
	counts := make(map[string]int, cities.Len())
	for _, r := range rows {
		if c, ok := cities.Lookup(r.city); ok {
			counts[c.Name]++
		}
	}
	for _, c := range cities.Cities() {
		if counts[c.Name] == 0 {
			p.errorf("no rows for %s", c.Name)
		}
	}
	return p
}
