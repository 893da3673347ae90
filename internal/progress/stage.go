package progress

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English)

// Stage is a named sub-step of a long-running operation surfaced for
// progress display. Key is the stable server token (e.g. "BUILD"), Label the
// human-readable form. Stages are immutable once constructed.
type Stage struct {
	Key   string
	Label string
}

// NewStage builds a Stage from a server stage token, deriving the label by
// replacing underscores with spaces and title-casing ("ARTIFACT_REGISTRY"
// becomes "Artifact Registry").
func NewStage(key string) Stage {
	return Stage{
		Key:   key,
		Label: titler.String(strings.ReplaceAll(key, "_", " ")),
	}
}

// StageSet is an ordered collection of stages. Order follows the server's
// stage list, with any caller-appended extra stages at the end.
type StageSet struct {
	stages []Stage
}

func NewStageSet(stages ...Stage) *StageSet {
	return &StageSet{stages: stages}
}

// Append adds stages to the end of the set. Used for stages the caller knows
// about statically but the server may not report during discovery, such as
// rollback stages.
func (s *StageSet) Append(stages ...Stage) {
	s.stages = append(s.stages, stages...)
}

// Stages returns the stages in order.
func (s *StageSet) Stages() []Stage {
	return s.stages
}

// Len returns the number of stages in the set.
func (s *StageSet) Len() int {
	return len(s.stages)
}
