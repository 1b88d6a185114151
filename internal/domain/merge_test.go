package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func masterRec(city CityReference, d time.Time, temp float64) MasterRecord {
	return MasterRecord{City: city, Date: d, MaxTemperature: temp, Condition: ConditionSunny}
}

func TestMerge_SortsByDateThenOrdinal(t *testing.T) {
	r := testRegistry(t)
	adana, _ := r.Lookup("Adana")
	ankara, _ := r.Lookup("Ankara")
	istanbul, _ := r.Lookup("Istanbul")

	shards := []ValidatedShard{
		{Records: []MasterRecord{masterRec(istanbul, day(2003, 1, 1), 10), masterRec(istanbul, day(2003, 1, 2), 11)}},
		{Records: []MasterRecord{masterRec(adana, day(2003, 1, 1), 15), masterRec(adana, day(2003, 1, 2), 16)}},
		{Records: []MasterRecord{masterRec(ankara, day(2003, 1, 2), 3), masterRec(ankara, day(2003, 1, 1), 2)}},
	}

	merged := Merge(shards)

	type key struct {
		Date string
		City string
	}
	got := make([]key, 0, len(merged))
	for _, m := range merged {
		got = append(got, key{Date: m.Date.Format(DateLayout), City: m.City.Name})
	}
	want := []key{
		{"2003-01-01", "Adana"},
		{"2003-01-01", "Ankara"},
		{"2003-01-01", "Istanbul"},
		{"2003-01-02", "Adana"},
		{"2003-01-02", "Ankara"},
		{"2003-01-02", "Istanbul"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge order mismatch (-want +got):\n%s", diff)
	}

	for i := 1; i < len(merged); i++ {
		assert.LessOrEqual(t, CompareMaster(merged[i-1], merged[i]), 0)
	}
	for _, s := range shards {
		assert.Zero(t, s.Summary.Overwritten)
	}
}

func TestMerge_LaterShardWins(t *testing.T) {
	r := testRegistry(t)
	ankara, _ := r.Lookup("Ankara")

	shards := []ValidatedShard{
		{Summary: ShardSummary{Shard: "06_Ankara.csv"}, Records: []MasterRecord{
			masterRec(ankara, day(2010, 5, 1), 20),
			masterRec(ankara, day(2010, 5, 2), 21),
		}},
		{Summary: ShardSummary{Shard: "06_Ankara_rerun.csv"}, Records: []MasterRecord{
			masterRec(ankara, day(2010, 5, 2), 23.5),
		}},
	}

	merged := Merge(shards)

	require.Len(t, merged, 2)
	assert.InDelta(t, 20, merged[0].MaxTemperature, 1e-9)
	assert.InDelta(t, 23.5, merged[1].MaxTemperature, 1e-9)
	assert.Zero(t, shards[0].Summary.Overwritten)
	assert.Equal(t, 1, shards[1].Summary.Overwritten)
}

func TestMerge_DuplicateWithinShard(t *testing.T) {
	r := testRegistry(t)
	adana, _ := r.Lookup("Adana")

	shards := []ValidatedShard{{Records: []MasterRecord{
		masterRec(adana, day(2004, 2, 1), 1),
		masterRec(adana, day(2004, 2, 1), 2),
	}}}

	merged := Merge(shards)
	require.Len(t, merged, 1)
	assert.InDelta(t, 2, merged[0].MaxTemperature, 1e-9)
	assert.Equal(t, 1, shards[0].Summary.Overwritten)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(nil))
	first, last := DateSpan(nil)
	assert.Empty(t, first)
	assert.Empty(t, last)
}

func TestDateSpan(t *testing.T) {
	r := testRegistry(t)
	adana, _ := r.Lookup("Adana")
	merged := Merge([]ValidatedShard{{Records: []MasterRecord{
		masterRec(adana, day(2005, 3, 1), 1),
		masterRec(adana, day(2003, 1, 1), 1),
		masterRec(adana, day(2024, 12, 31), 1),
	}}})

	first, last := DateSpan(merged)
	assert.Equal(t, "2003-01-01", first)
	assert.Equal(t, "2024-12-31", last)
}

func TestRunReport_Tally(t *testing.T) {
	rep := RunReport{Shards: []ShardSummary{
		{Accepted: 10, Dropped: 2, Outliers: 1, Overwritten: 0},
		{Accepted: 5, Dropped: 1, Outliers: 0, Overwritten: 3},
	}}
	rep.Tally()
	assert.Equal(t, 15, rep.Accepted)
	assert.Equal(t, 3, rep.Dropped)
	assert.Equal(t, 1, rep.Outliers)
	assert.Equal(t, 3, rep.Overwritten)
}
