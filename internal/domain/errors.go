package domain

import (
	"errors"
	"fmt"
)

// Structural errors abort the whole run.
var (
	ErrMissingReferenceData = errors.New("missing reference data")
	ErrShardFormat          = errors.New("shard format error")
	ErrUnknownCity          = errors.New("unknown city")
	ErrNoShards             = errors.New("no shard files found")
	ErrMissingShard         = errors.New("missing shard")
	ErrWrite                = errors.New("write error")
)

// ErrMalformedLine marks a shard line that could not be tokenized. Readers
// wrap it so the validator can drop the line instead of failing the shard.
var ErrMalformedLine = errors.New("malformed line")

// RowIssue classifies why a row was dropped.
type RowIssue string

const (
	IssueMalformedLine        RowIssue = "malformed_line"
	IssueUnparseableDate      RowIssue = "unparseable_date"
	IssueDateOutOfRange       RowIssue = "date_out_of_range"
	IssueInvalidTemperature   RowIssue = "invalid_temperature"
	IssueUnknownConditionCode RowIssue = "unknown_condition_code"
	IssueOutlierDropped       RowIssue = "outlier_dropped"
)

// RowWarning describes one dropped row. It never aborts a shard.
type RowWarning struct {
	Shard string
	Line  int
	Issue RowIssue
	Value string
}

func (w RowWarning) Error() string {
	return fmt.Sprintf("%s line %d: %s %q", w.Shard, w.Line, w.Issue, w.Value)
}
