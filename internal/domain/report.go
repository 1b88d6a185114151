package domain

import "time"

// ShardSummary counts what happened to the rows of one shard.
type ShardSummary struct {
	Shard       string           `json:"shard"`
	City        string           `json:"city"`
	Accepted    int              `json:"accepted"`
	Dropped     int              `json:"dropped"`
	Outliers    int              `json:"outliers"`
	Overwritten int              `json:"overwritten"`
	DropReasons map[RowIssue]int `json:"drop_reasons,omitempty"`
}

func (s *ShardSummary) drop(issue RowIssue) {
	s.Dropped++
	if s.DropReasons == nil {
		s.DropReasons = make(map[RowIssue]int)
	}
	s.DropReasons[issue]++
}

// RunReport is the observability record of one pipeline run. Operators read
// it; training scripts do not.
type RunReport struct {
	RunID          string         `json:"run_id"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	ConditionTable string         `json:"condition_table"`
	OutputPath     string         `json:"output_path"`
	Shards         []ShardSummary `json:"shards"`
	Accepted       int            `json:"accepted"`
	Dropped        int            `json:"dropped"`
	Outliers       int            `json:"outliers"`
	Overwritten    int            `json:"overwritten"`
	RowsWritten    int            `json:"rows_written"`
	FirstDate      string         `json:"first_date,omitempty"`
	LastDate       string         `json:"last_date,omitempty"`
	MissingCities  []string       `json:"missing_cities,omitempty"`
}

// Tally sums the shard summaries into the report totals.
func (r *RunReport) Tally() {
	r.Accepted, r.Dropped, r.Outliers, r.Overwritten = 0, 0, 0, 0
	for _, s := range r.Shards {
		r.Accepted += s.Accepted
		r.Dropped += s.Dropped
		r.Outliers += s.Outliers
		r.Overwritten += s.Overwritten
	}
}
