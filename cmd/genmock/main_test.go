package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/turkey-weather-etl/internal/adapter/csvfile"
	"github.com/couchcryptid/turkey-weather-etl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, dirty float64) config {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	return config{
		out:      t.TempDir(),
		cities:   3,
		start:    domain.CoverageStart,
		days:     30,
		seed:     7,
		dirty:    dirty,
		timezone: loc,
	}
}

func TestProvinces(t *testing.T) {
	require.Len(t, provinces, 81)
	seen := make(map[string]bool)
	for i, p := range provinces {
		assert.Equal(t, i+1, p.plate)
		assert.False(t, seen[p.name], p.name)
		seen[p.name] = true
	}
}

func TestCodesByCondition(t *testing.T) {
	codes := codesByCondition(domain.WMOConditionTable())
	for _, c := range domain.Conditions {
		assert.NotEmpty(t, codes[c], c)
	}
	assert.Equal(t, []int{0, 1, 2}, codes[domain.ConditionSunny])
}

func TestGenerate_ReadableByPipelineAdapters(t *testing.T) {
	cfg := testConfig(t, 0)
	require.NoError(t, generate(cfg))

	cities, err := csvfile.LoadReference(filepath.Join(cfg.out, "locations.csv"), 3)
	require.NoError(t, err)
	assert.Equal(t, "Adıyaman", cities.Cities()[1].Name)

	shardDir := filepath.Join(cfg.out, "city_weather_data")
	names, err := csvfile.ListShards(shardDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"01_Adana.csv", "02_Adıyaman.csv", "03_Afyonkarahisar.csv"}, names)

	reader, err := csvfile.OpenShard(filepath.Join(shardDir, names[0]))
	require.NoError(t, err)
	defer reader.Close()

	rules := domain.DefaultRules(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), cfg.timezone)
	out, err := domain.ValidateShard(names[0], reader.Records(), cities, rules, nil)
	require.NoError(t, err)
	assert.Equal(t, 30, out.Summary.Accepted)
	assert.Zero(t, out.Summary.Dropped)
	assert.Equal(t, domain.CoverageStart, out.Records[0].Date, "local midnight maps back to the calendar day")
}

func TestGenerate_FixedIntervalStampsSurviveClockChanges(t *testing.T) {
	cfg := testConfig(t, 0)
	cfg.cities = 1
	cfg.days = 400
	require.NoError(t, generate(cfg))

	cities, err := csvfile.LoadReference(filepath.Join(cfg.out, "locations.csv"), 1)
	require.NoError(t, err)
	reader, err := csvfile.OpenShard(filepath.Join(cfg.out, "city_weather_data", "01_Adana.csv"))
	require.NoError(t, err)
	defer reader.Close()

	var stamps []string
	rows := func(yield func(domain.RawWeatherRecord, error) bool) {
		for rec, err := range reader.Records() {
			stamps = append(stamps, rec.Date)
			if !yield(rec, err) {
				return
			}
		}
	}

	rules := domain.DefaultRules(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), cfg.timezone)
	out, err := domain.ValidateShard("01_Adana.csv", rows, cities, rules, nil)
	require.NoError(t, err)
	assert.Equal(t, 400, out.Summary.Accepted)

	for _, s := range stamps {
		assert.Contains(t, s, " 22:00:00+00:00", "every row keeps the first midnight's UTC time of day")
	}

	shards := []domain.ValidatedShard{out}
	merged := domain.Merge(shards)
	require.Len(t, merged, 400)
	assert.Zero(t, shards[0].Summary.Overwritten)
	assert.Equal(t, domain.CoverageStart, merged[0].Date)
	assert.Equal(t, domain.CoverageStart.AddDate(0, 0, 399), merged[399].Date)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, b := testConfig(t, 0.2), testConfig(t, 0.2)
	require.NoError(t, generate(a))
	require.NoError(t, generate(b))

	for _, name := range []string{"locations.csv", "city_weather_data/02_Adıyaman.csv"} {
		first, err := os.ReadFile(filepath.Join(a.out, name))
		require.NoError(t, err)
		second, err := os.ReadFile(filepath.Join(b.out, name))
		require.NoError(t, err)
		assert.Equal(t, first, second, name)
	}
}
