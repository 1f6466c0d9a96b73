package parse

import (
	"errors"
	"fmt"
)

// Stage is the position of a single parse attempt in its lifecycle:
//
//	pending -> prompt_built -> upstream_called -> interpreted | failed
//
// interpreted and failed are terminal. There is no retry transition; a retry
// is a fresh attempt.
type Stage string

// Parse attempt stages.
const (
	StagePending        Stage = "pending"
	StagePromptBuilt    Stage = "prompt_built"
	StageUpstreamCalled Stage = "upstream_called"
	StageInterpreted    Stage = "interpreted"
	StageFailed         Stage = "failed"
)

// Terminal reports whether no further transition is possible.
func (s Stage) Terminal() bool { return s == StageInterpreted || s == StageFailed }

var transitions = map[Stage][]Stage{
	StagePending:        {StagePromptBuilt, StageFailed},
	StagePromptBuilt:    {StageUpstreamCalled, StageFailed},
	StageUpstreamCalled: {StageInterpreted, StageFailed},
}

// CanTransition reports whether moving from s to next is allowed.
func (s Stage) CanTransition(next Stage) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Attempt tracks one parse attempt through its stages.
type Attempt struct {
	stage Stage
}

// NewAttempt starts an attempt in StagePending.
func NewAttempt() *Attempt { return &Attempt{stage: StagePending} }

// Stage returns the current stage.
func (a *Attempt) Stage() Stage { return a.stage }

// Advance moves the attempt to next. Illegal transitions panic: they are
// programming errors, not runtime conditions.
func (a *Attempt) Advance(next Stage) {
	if !a.stage.CanTransition(next) {
		panic(fmt.Sprintf("parse: illegal transition %s -> %s", a.stage, next))
	}
	a.stage = next
}

// Fail moves the attempt to StageFailed and returns err annotated with the
// stage that was active when it failed.
func (a *Attempt) Fail(err error) error {
	at := a.stage
	a.Advance(StageFailed)
	return &StageError{Stage: at, Err: err}
}

// StageError records the stage at which an attempt failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// FailedStage extracts the stage from err, or "" when err carries none.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
