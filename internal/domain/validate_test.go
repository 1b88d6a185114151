package domain

import (
	"errors"
	"fmt"
	"iter"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShard = "06_Ankara.csv"

var (
	testNow  = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	istanbul = time.FixedZone("TRT", 3*60*60)
)

type rowOrErr struct {
	rec RawWeatherRecord
	err error
}

func rowsOf(items ...rowOrErr) iter.Seq2[RawWeatherRecord, error] {
	return func(yield func(RawWeatherRecord, error) bool) {
		for _, it := range items {
			if !yield(it.rec, it.err) {
				return
			}
		}
	}
}

func row(line int, city, date, temp, code string) rowOrErr {
	return rowOrErr{rec: RawWeatherRecord{Line: line, City: city, Date: date, MaxTemperature: temp, ConditionCode: code}}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidationRules_ParseDate(t *testing.T) {
	rules := DefaultRules(testNow, istanbul)

	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2003-01-01", day(2003, 1, 1)},
		{"2010-07-04 00:00:00", day(2010, 7, 4)},
		{"2010-07-04T00:00:00", day(2010, 7, 4)},
		{"2002-12-31 21:00:00+00:00", day(2003, 1, 1)},
		{"2002-12-31T21:00:00Z", day(2003, 1, 1)},
		{"2015-03-10 00:00:00+03:00", day(2015, 3, 10)},
		{" 2020-02-29 ", day(2020, 2, 29)},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := rules.ParseDate(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"", "yesterday", "2021-02-30", "15/03/2010"} {
		_, err := rules.ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidationRules_ParseDate_DaylightSavingYears(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	rules := DefaultRules(testNow, loc)

	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2002-12-31 21:00:00+00:00", day(2003, 1, 1)},
		{"2002-12-31 22:00:00+00:00", day(2003, 1, 1)},
		{"2003-07-14 21:00:00+00:00", day(2003, 7, 15)},
		{"2003-10-25 21:00:00+00:00", day(2003, 10, 26)},
		{"2003-10-26 21:00:00+00:00", day(2003, 10, 27)},
		{"2003-01-01 00:00:00+02:00", day(2003, 1, 1)},
	}
	for _, tc := range cases {
		got, err := rules.ParseDate(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

// Scraper shards advance in whole days from the first local midnight, so a
// pre-2016 clock change must neither drop nor fold any day.
func TestValidateShard_ScraperStampsAcrossClockChange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	rules := DefaultRules(testNow, loc)
	cities := testRegistry(t)

	first := time.Date(2003, time.October, 20, 21, 0, 0, 0, time.UTC)
	var items []rowOrErr
	for i := range 14 {
		stamp := first.AddDate(0, 0, i).Format("2006-01-02 15:04:05+00:00")
		items = append(items, row(i+2, "Ankara", stamp, fmt.Sprintf("%d", 10+i), "3"))
	}

	out, err := ValidateShard(testShard, rowsOf(items...), cities, rules, nil)
	require.NoError(t, err)
	assert.Equal(t, 14, out.Summary.Accepted)
	assert.Zero(t, out.Summary.Dropped)

	shards := []ValidatedShard{out}
	merged := Merge(shards)
	require.Len(t, merged, 14)
	assert.Zero(t, shards[0].Summary.Overwritten)
	for i, rec := range merged {
		assert.Equal(t, day(2003, 10, 21).AddDate(0, 0, i), rec.Date)
		assert.InDelta(t, float64(10+i), rec.MaxTemperature, 1e-9)
	}
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules(time.Date(2025, time.June, 15, 22, 30, 0, 0, time.UTC), istanbul)
	assert.Equal(t, CoverageStart, rules.MinDate)
	assert.Equal(t, day(2025, 6, 16), rules.MaxDate, "22:30 UTC is already the next day in Istanbul")
	assert.Equal(t, DefaultMinTemp, rules.MinTemp)
	assert.Equal(t, DefaultMaxTemp, rules.MaxTemp)
	assert.False(t, rules.DropOutliers)
	assert.Equal(t, WMOTableVersion, rules.Conditions.Version())

	utc := DefaultRules(testNow, nil)
	assert.Equal(t, time.UTC, utc.Location)
}

func TestValidateShard_HappyPath(t *testing.T) {
	cities := testRegistry(t)
	rules := DefaultRules(testNow, istanbul)

	rows := rowsOf(
		rowOrErr{rec: RawWeatherRecord{
			Line: 2, City: "Ankara", Date: "2002-12-31 21:00:00+00:00", MaxTemperature: "4.5", ConditionCode: "3.0",
			Aux: []Field{{Name: "precipitation", Value: "0.0"}},
		}},
		row(3, "Ankara", "2003-01-02", "-2", "71"),
		row(4, "", "2003-01-03", "1.25", "Sunny"),
	)

	out, err := ValidateShard(testShard, rows, cities, rules, nil)
	require.NoError(t, err)

	require.Len(t, out.Records, 3)
	first := out.Records[0]
	assert.Equal(t, "Ankara", first.City.Name)
	assert.Equal(t, 1, first.City.Ordinal)
	assert.Equal(t, day(2003, 1, 1), first.Date)
	assert.InDelta(t, 4.5, first.MaxTemperature, 1e-9)
	assert.Equal(t, ConditionCloudy, first.Condition)
	assert.False(t, first.Outlier)
	assert.Equal(t, []Field{{Name: "precipitation", Value: "0.0"}}, first.Aux)

	assert.Equal(t, ConditionSnow, out.Records[1].Condition)
	assert.Equal(t, ConditionSunny, out.Records[2].Condition)

	assert.Equal(t, ShardSummary{Shard: testShard, City: "Ankara", Accepted: 3}, out.Summary)
}

func TestValidateShard_DropsBadRows(t *testing.T) {
	cities := testRegistry(t)
	rules := DefaultRules(testNow, istanbul)

	var warnings []RowWarning
	rows := rowsOf(
		row(2, "Ankara", "2003-01-01", "5", "0"),
		row(3, "Ankara", "garbage", "5", "0"),
		row(4, "Ankara", "2002-12-30", "5", "0"),
		row(5, "Ankara", "2025-06-16", "5", "0"),
		row(6, "Ankara", "2003-01-05", "", "0"),
		row(7, "Ankara", "2003-01-06", "NaN", "0"),
		row(8, "Ankara", "2003-01-07", "5", "42"),
		rowOrErr{rec: RawWeatherRecord{Line: 9}, err: fmt.Errorf("%w: bare quote", ErrMalformedLine)},
		row(10, "Ankara", "2003-01-08", "6", "61"),
	)

	out, err := ValidateShard(testShard, rows, cities, rules, func(w RowWarning) { warnings = append(warnings, w) })
	require.NoError(t, err)

	assert.Len(t, out.Records, 2)
	assert.Equal(t, 2, out.Summary.Accepted)
	assert.Equal(t, 7, out.Summary.Dropped)
	assert.Equal(t, map[RowIssue]int{
		IssueUnparseableDate:      1,
		IssueDateOutOfRange:       2,
		IssueInvalidTemperature:   2,
		IssueUnknownConditionCode: 1,
		IssueMalformedLine:        1,
	}, out.Summary.DropReasons)

	require.Len(t, warnings, 7)
	assert.Equal(t, RowWarning{Shard: testShard, Line: 3, Issue: IssueUnparseableDate, Value: "garbage"}, warnings[0])
	assert.Equal(t, 9, warnings[6].Line)
	assert.Contains(t, warnings[5].Error(), "unknown_condition_code")
}

func TestValidateShard_Outliers(t *testing.T) {
	cities := testRegistry(t)
	rows := func() iter.Seq2[RawWeatherRecord, error] {
		return rowsOf(
			row(2, "Ankara", "2003-01-01", "61.2", "0"),
			row(3, "Ankara", "2003-01-02", "-50.5", "71"),
			row(4, "Ankara", "2003-01-03", "60", "0"),
			row(5, "Ankara", "2003-01-04", "-50", "0"),
		)
	}

	t.Run("flagged and kept by default", func(t *testing.T) {
		out, err := ValidateShard(testShard, rows(), cities, DefaultRules(testNow, istanbul), nil)
		require.NoError(t, err)
		require.Len(t, out.Records, 4)
		assert.True(t, out.Records[0].Outlier)
		assert.True(t, out.Records[1].Outlier)
		assert.False(t, out.Records[2].Outlier, "bounds are inclusive")
		assert.False(t, out.Records[3].Outlier, "bounds are inclusive")
		assert.Equal(t, 2, out.Summary.Outliers)
		assert.Equal(t, 4, out.Summary.Accepted)
		assert.Zero(t, out.Summary.Dropped)
	})

	t.Run("dropped when configured", func(t *testing.T) {
		rules := DefaultRules(testNow, istanbul)
		rules.DropOutliers = true
		out, err := ValidateShard(testShard, rows(), cities, rules, nil)
		require.NoError(t, err)
		assert.Len(t, out.Records, 2)
		assert.Equal(t, 2, out.Summary.Outliers)
		assert.Equal(t, 2, out.Summary.Dropped)
		assert.Equal(t, 2, out.Summary.DropReasons[IssueOutlierDropped])
	})
}

func TestValidateShard_StructuralErrors(t *testing.T) {
	cities := testRegistry(t)
	rules := DefaultRules(testNow, istanbul)

	t.Run("unknown city aborts the shard", func(t *testing.T) {
		_, err := ValidateShard("99_Atlantis.csv", rowsOf(row(2, "Atlantis", "2003-01-01", "5", "0")), cities, rules, nil)
		require.ErrorIs(t, err, ErrUnknownCity)
		assert.Contains(t, err.Error(), "Atlantis")
	})

	t.Run("city falls back to file name", func(t *testing.T) {
		out, err := ValidateShard("34_Istanbul.csv", rowsOf(row(2, "", "2003-01-01", "5", "0")), cities, rules, nil)
		require.NoError(t, err)
		assert.Equal(t, "Istanbul", out.Summary.City)
		assert.Equal(t, 2, out.Records[0].City.Ordinal)
	})

	t.Run("unknown city in file name of empty shard", func(t *testing.T) {
		_, err := ValidateShard("99_Atlantis.csv", rowsOf(), cities, rules, nil)
		require.ErrorIs(t, err, ErrUnknownCity)
	})

	t.Run("empty shard with known file name", func(t *testing.T) {
		out, err := ValidateShard("01_Adana.csv", rowsOf(), cities, rules, nil)
		require.NoError(t, err)
		assert.Equal(t, "Adana", out.Summary.City)
		assert.Empty(t, out.Records)
	})

	t.Run("no city anywhere", func(t *testing.T) {
		_, err := ValidateShard("weather.csv", rowsOf(row(2, "", "2003-01-01", "5", "0")), cities, rules, nil)
		require.ErrorIs(t, err, ErrShardFormat)
	})

	t.Run("mixed cities", func(t *testing.T) {
		_, err := ValidateShard(testShard, rowsOf(
			row(2, "Ankara", "2003-01-01", "5", "0"),
			row(3, "Adana", "2003-01-02", "5", "0"),
		), cities, rules, nil)
		require.ErrorIs(t, err, ErrShardFormat)
	})

	t.Run("read error", func(t *testing.T) {
		ioErr := errors.New("disk on fire")
		_, err := ValidateShard(testShard, rowsOf(
			row(2, "Ankara", "2003-01-01", "5", "0"),
			rowOrErr{rec: RawWeatherRecord{Line: 3}, err: ioErr},
		), cities, rules, nil)
		require.ErrorIs(t, err, ErrShardFormat)
		require.ErrorIs(t, err, ioErr)
	})
}
