package interview

import (
	"fmt"

	"github.com/sithumSoft/MockMate/internal/models"
)

type State int

const (
	StateUninitialized State = iota
	StateAwaitingAnswer
	StateEvaluating
	StateFinished
)

var stateNames = map[State]string{
	StateUninitialized:  "uninitialized",
	StateAwaitingAnswer: "awaiting_answer",
	StateEvaluating:     "evaluating",
	StateFinished:       "finished",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown interview state %q", text)
}

// Snapshot is a point-in-time copy of a controller, safe to hand to callers.
type Snapshot struct {
	State           State                    `json:"state"`
	Round           int                      `json:"round"`
	MaxRounds       int                      `json:"maxRounds"`
	CanAdvance      bool                     `json:"canAdvance"`
	Interview       *models.Interview        `json:"interview,omitempty"`
	CurrentQuestion *models.Question         `json:"currentQuestion,omitempty"`
	LastEvaluation  *models.AnswerEvaluation `json:"lastEvaluation,omitempty"`
	OverallScore    float64                  `json:"overallScore"`
	AnsweredAverage float64                  `json:"answeredAverage"`
	Warnings        []string                 `json:"warnings,omitempty"`
}
