package service

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step a generation failure occurred in, so a
// batch run can log per-user, per-stage failures without aborting the
// other users.
type Stage string

const (
	StageFetch     Stage = "fetch"
	StageAggregate Stage = "aggregate"
	StagePrompt    Stage = "prompt"
	StageModel     Stage = "model"
	StageParse     Stage = "parse"
	StageValidate  Stage = "validate"
	StageSave      Stage = "save"
)

// GenerationError wraps a stage failure with the user it happened for.
// Aggregation and prompt building are pure functions and should never
// produce one, but their stages stay in the set for forensic clarity.
type GenerationError struct {
	Stage  Stage
	UserID string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("summary generation failed for user %s at stage %s: %v", e.UserID, e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// StageOf extracts the stage tag from an error chain, defaulting to
// fetch for failures raised before the pipeline tagged anything.
func StageOf(err error) Stage {
	var generationErr *GenerationError
	if errors.As(err, &generationErr) {
		return generationErr.Stage
	}
	return StageFetch
}
