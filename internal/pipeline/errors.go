package pipeline

import "fmt"

// Stage names the pipeline step a fatal error came from.
type Stage string

const (
	StageReference Stage = "reference"
	StageShard     Stage = "shard"
	StageMerge     Stage = "merge"
	StageWrite     Stage = "write"
	StageReport    Stage = "report"
)

// StageError wraps a structural error with the stage that raised it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
