package domain

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
	"time"
)

// CoverageStart is the first day of the collected archive.
var CoverageStart = time.Date(2003, time.January, 1, 0, 0, 0, 0, time.UTC)

// Plausible daily maximum range for Türkiye, in °C.
const (
	DefaultMinTemp = -50.0
	DefaultMaxTemp = 60.0
)

// dateLayouts are tried in order. Zoned layouts carry a daily stamp and are
// rounded to the nearest midnight in their own offset.
var dateLayouts = []struct {
	layout string
	zoned  bool
}{
	{DateLayout, false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05Z07:00", true},
	{time.RFC3339, true},
}

// ValidationRules configures row validation for one run. The value is
// immutable and shared by every shard validator. Location only decides which
// calendar day is "today"; row dates never pass through zone rules.
type ValidationRules struct {
	Conditions   ConditionTable
	Location     *time.Location
	MinDate      time.Time
	MaxDate      time.Time
	MinTemp      float64
	MaxTemp      float64
	DropOutliers bool
}

// DefaultRules covers 2003-01-01 through the current day in loc.
func DefaultRules(now time.Time, loc *time.Location) ValidationRules {
	if loc == nil {
		loc = time.UTC
	}
	return ValidationRules{
		Conditions: WMOConditionTable(),
		Location:   loc,
		MinDate:    CoverageStart,
		MaxDate:    calendarDay(now.In(loc)),
		MinTemp:    DefaultMinTemp,
		MaxTemp:    DefaultMaxTemp,
	}
}

// ParseDate converts a shard date cell into midnight UTC of its calendar day.
func (r ValidationRules) ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, l := range dateLayouts {
		t, err := time.Parse(l.layout, raw)
		if err != nil {
			continue
		}
		if l.zoned {
			return nearestDay(t), nil
		}
		return calendarDay(t), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// castRow types a raw row. A non-empty issue means the row must be dropped.
func (r ValidationRules) castRow(rec RawWeatherRecord, city CityReference) (MasterRecord, RowIssue, string) {
	date, err := r.ParseDate(rec.Date)
	if err != nil {
		return MasterRecord{}, IssueUnparseableDate, rec.Date
	}
	if date.Before(r.MinDate) || date.After(r.MaxDate) {
		return MasterRecord{}, IssueDateOutOfRange, rec.Date
	}

	temp, ok := parseTemperature(rec.MaxTemperature)
	if !ok {
		return MasterRecord{}, IssueInvalidTemperature, rec.MaxTemperature
	}

	cond, ok := r.Conditions.Normalize(rec.ConditionCode)
	if !ok {
		return MasterRecord{}, IssueUnknownConditionCode, rec.ConditionCode
	}

	return MasterRecord{
		City:           city,
		Date:           date,
		MaxTemperature: temp,
		Condition:      cond,
		Outlier:        temp < r.MinTemp || temp > r.MaxTemp,
		Aux:            rec.Aux,
	}, "", ""
}

// ValidateShard type-casts the rows of one shard against the reference
// cities. Dropped rows are passed to warn (which may be nil) and counted in
// the summary. Returned errors are structural and abort the run.
func ValidateShard(
	shard string,
	rows iter.Seq2[RawWeatherRecord, error],
	cities *CityRegistry,
	rules ValidationRules,
	warn func(RowWarning),
) (ValidatedShard, error) {
	out := ValidatedShard{Summary: ShardSummary{Shard: shard}}
	reject := func(line int, issue RowIssue, value string) {
		out.Summary.drop(issue)
		if warn != nil {
			warn(RowWarning{Shard: shard, Line: line, Issue: issue, Value: value})
		}
	}

	var declared *CityReference
	for rec, err := range rows {
		if err != nil {
			if !errors.Is(err, ErrMalformedLine) {
				if errors.Is(err, ErrShardFormat) {
					return ValidatedShard{}, err
				}
				return ValidatedShard{}, fmt.Errorf("%w: %s: %w", ErrShardFormat, shard, err)
			}
			reject(rec.Line, IssueMalformedLine, err.Error())
			continue
		}

		name := strings.TrimSpace(rec.City)
		if declared == nil {
			city, err := resolveCity(shard, name, cities)
			if err != nil {
				return ValidatedShard{}, err
			}
			declared = &city
			out.Summary.City = city.Name
		} else if name != "" && !strings.EqualFold(name, declared.Name) {
			return ValidatedShard{}, fmt.Errorf("%w: %s line %d: row for %q in shard of %q",
				ErrShardFormat, shard, rec.Line, name, declared.Name)
		}

		master, issue, value := rules.castRow(rec, *declared)
		if issue != "" {
			reject(rec.Line, issue, value)
			continue
		}
		if master.Outlier {
			out.Summary.Outliers++
			if rules.DropOutliers {
				reject(rec.Line, IssueOutlierDropped, rec.MaxTemperature)
				continue
			}
		}
		out.Summary.Accepted++
		out.Records = append(out.Records, master)
	}

	if declared == nil {
		city, err := resolveCity(shard, "", cities)
		if err != nil {
			return ValidatedShard{}, err
		}
		out.Summary.City = city.Name
	}
	return out, nil
}

// resolveCity determines the shard's city from its first row, falling back to
// the file name.
func resolveCity(shard, name string, cities *CityRegistry) (CityReference, error) {
	if name == "" {
		name = CityFromShardName(shard)
	}
	if name == "" {
		return CityReference{}, fmt.Errorf("%w: %s: no city column value and no city in file name", ErrShardFormat, shard)
	}
	city, ok := cities.Lookup(name)
	if !ok {
		return CityReference{}, fmt.Errorf("%w: %s declares %q", ErrUnknownCity, shard, name)
	}
	return city, nil
}

func parseTemperature(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// nearestDay rounds t to the closest midnight of its own offset. The scraper
// stamps every row with the first local midnight plus a whole number of days,
// so all rows of a shard share one UTC time of day across clock changes.
func nearestDay(t time.Time) time.Time {
	return calendarDay(t.Add(12 * time.Hour))
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
