package conversation

import "fmt"

// Stage identifies the pipeline stage an external provider failed in.
type Stage string

const (
	StageTranscribe Stage = "transcription"
	StageGenerate   Stage = "generation"
	StageSynthesize Stage = "synthesis"
)

// StageError wraps a provider failure with the stage it happened in. The
// wrapped error is surfaced verbatim; nothing is swallowed or defaulted.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
