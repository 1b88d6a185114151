package domain

import "slices"

// ValidatedShard is the output of ValidateShard for one shard.
type ValidatedShard struct {
	Records []MasterRecord
	Summary ShardSummary
}

// Merge combines validated shards into one dataset sorted by (date, city
// ordinal). Shards must be passed in processing order: when two records share
// a (city, date) key the later one replaces the earlier one, and the
// replacing shard's Overwritten counter is incremented.
//
// Keys are unique after deduplication, so the sort is a total order and the
// result does not depend on sort stability.
func Merge(shards []ValidatedShard) []MasterRecord {
	total := 0
	for i := range shards {
		total += len(shards[i].Records)
	}

	index := make(map[RecordKey]int, total)
	out := make([]MasterRecord, 0, total)
	for i := range shards {
		for _, rec := range shards[i].Records {
			key := rec.Key()
			if pos, ok := index[key]; ok {
				out[pos] = rec
				shards[i].Summary.Overwritten++
				continue
			}
			index[key] = len(out)
			out = append(out, rec)
		}
	}

	slices.SortFunc(out, CompareMaster)
	return out
}

// DateSpan returns the first and last dates of a sorted dataset.
func DateSpan(records []MasterRecord) (first, last string) {
	if len(records) == 0 {
		return "", ""
	}
	return records[0].Date.Format(DateLayout), records[len(records)-1].Date.Format(DateLayout)
}
