package progress

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// StageStatus is the local lifecycle of a stage in the tracker. Transitions
// are monotonic: once a stage reaches a terminal status it never leaves it.
type StageStatus int

const (
	StatusWaiting StageStatus = iota
	StatusRunning
	StatusComplete
	StatusCompleteWithWarnings
)

func (s StageStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusRunning:
		return "running"
	case StatusComplete:
		return "complete"
	case StatusCompleteWithWarnings:
		return "complete with warnings"
	default:
		return "unknown"
	}
}

func (s StageStatus) terminal() bool {
	return s == StatusComplete || s == StatusCompleteWithWarnings
}

type stageState struct {
	stage    Stage
	status   StageStatus
	message  string
	warnings []string
}

// Tracker renders cumulative per-stage progress while an operation is
// polled. It is owned and mutated by a single goroutine; it has one lifetime
// per wait call, bracketed by Start and Stop.
type Tracker struct {
	log    *zap.Logger
	out    io.Writer
	stages map[string]*stageState
	order  []string
}

// NewTracker builds a tracker over the given stage set. Transitions are
// written to out and mirrored to the logger.
func NewTracker(log *zap.Logger, out io.Writer, set *StageSet) *Tracker {
	t := &Tracker{
		log:    log,
		out:    out,
		stages: make(map[string]*stageState, set.Len()),
	}
	for _, stage := range set.Stages() {
		if _, ok := t.stages[stage.Key]; ok {
			continue
		}
		t.stages[stage.Key] = &stageState{stage: stage, status: StatusWaiting}
		t.order = append(t.order, stage.Key)
	}
	return t
}

// Start begins rendering with the given description line.
func (t *Tracker) Start(description string) {
	fmt.Fprintf(t.out, "%s...\n", description)
	t.log.Debug("Progress tracking started", zap.Int("stages", len(t.order)))
}

// Stop ends rendering, flushing a final status line. It is safe to call on
// every exit path of the polling loop, including error and timeout.
func (t *Tracker) Stop(err error) {
	if err != nil {
		fmt.Fprintln(t.out, "Failed.")
		return
	}
	fmt.Fprintln(t.out, "Done.")
}

// IsWaiting reports whether the stage has not started yet.
func (t *Tracker) IsWaiting(key string) bool {
	s, ok := t.stages[key]
	return ok && s.status == StatusWaiting
}

// IsComplete reports whether the stage reached a terminal status.
func (t *Tracker) IsComplete(key string) bool {
	s, ok := t.stages[key]
	return ok && s.status.terminal()
}

// Status returns the current status of a stage.
func (t *Tracker) Status(key string) (StageStatus, bool) {
	s, ok := t.stages[key]
	if !ok {
		return StatusWaiting, false
	}
	return s.status, true
}

// Message returns the last displayed message for a stage.
func (t *Tracker) Message(key string) string {
	if s, ok := t.stages[key]; ok {
		return s.message
	}
	return ""
}

// Warnings returns the warnings recorded when the stage completed.
func (t *Tracker) Warnings(key string) []string {
	if s, ok := t.stages[key]; ok {
		return s.warnings
	}
	return nil
}

// StartStage transitions a stage from waiting to running. Callers must check
// IsWaiting first; starting a stage in any other status is an error.
func (t *Tracker) StartStage(key string) error {
	s, ok := t.stages[key]
	if !ok {
		return errors.Errorf("unknown stage %q", key)
	}
	if s.status != StatusWaiting {
		return errors.Errorf("stage %q is %s, only a waiting stage can be started", key, s.status)
	}
	s.status = StatusRunning
	fmt.Fprintf(t.out, "[%s] started\n", s.stage.Label)
	t.log.Debug("Stage started", zap.String("stage", key))
	return nil
}

// UpdateStage sets the live status text for a stage. It has no state-machine
// effect and is ignored for stages that already reached a terminal status.
func (t *Tracker) UpdateStage(key, message string) {
	s, ok := t.stages[key]
	if !ok || s.status.terminal() {
		return
	}
	if message != "" && message != s.message {
		fmt.Fprintf(t.out, "[%s] %s\n", s.stage.Label, message)
	}
	s.message = message
}

// CompleteStage marks a stage done. A no-op if the stage is already
// terminal: a later poll must never resurrect a finished stage.
func (t *Tracker) CompleteStage(key string) {
	t.complete(key, nil)
}

// CompleteStageWithWarnings marks a stage done with non-fatal warnings
// attached. Idempotent like CompleteStage.
func (t *Tracker) CompleteStageWithWarnings(key string, warnings []string) {
	t.complete(key, warnings)
}

func (t *Tracker) complete(key string, warnings []string) {
	s, ok := t.stages[key]
	if !ok || s.status.terminal() {
		return
	}
	if len(warnings) > 0 {
		s.status = StatusCompleteWithWarnings
		s.warnings = warnings
		fmt.Fprintf(t.out, "[%s] done with warnings\n", s.stage.Label)
		for _, w := range warnings {
			fmt.Fprintf(t.out, "  %s\n", w)
		}
	} else {
		s.status = StatusComplete
		fmt.Fprintf(t.out, "[%s] done\n", s.stage.Label)
	}
	t.log.Debug("Stage completed", zap.String("stage", key), zap.Int("warnings", len(warnings)))
}
