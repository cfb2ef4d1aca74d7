package session

import (
	"errors"

	"github.com/danielpatrickdp/shapeitup/internal/trial"
)

// #region state
// State is the position of a session in the practice → experiment → finished
// progression. It is derived from the task index.
type State string

const (
	StatePractice   State = "practice"
	StateExperiment State = "experiment"
	StateFinished   State = "finished"
)

// ErrFinished is returned when an answer arrives after the last task.
var ErrFinished = errors.New("session finished")

// #endregion state

// #region config
// Config fixes the shape of one participant's run.
type Config struct {
	PracticeTasks   int
	ExperimentTasks int
	LogPractice     bool // write a row for correct practice answers
}

// DefaultConfig returns 3 practice tasks followed by 50 experiment tasks.
func DefaultConfig() Config {
	return Config{
		PracticeTasks:   3,
		ExperimentTasks: 50,
		LogPractice:     true,
	}
}

// TotalTasks is practice plus experiment tasks.
func (c Config) TotalTasks() int {
	return c.PracticeTasks + c.ExperimentTasks
}

// #endregion config

// #region transition
// Transition is the outcome of one judged answer.
type Transition struct {
	From     State
	To       State
	Index    int  // task index that was answered
	Phase    trial.Phase
	Correct  bool
	Advanced bool // task index moved forward
	Blocked  bool // practice answer was wrong; the task must be retried
	Log      bool // a row should be written for this answer
}

// #endregion transition

// #region feedback
// Feedback is what the participant sees after submitting.
type Feedback struct {
	Correct      bool
	Chosen       string
	CorrectLabel string
	Blocked      bool
	Warning      string // non-fatal problem, e.g. the log write failed
	Finished     bool
	Score        int
	Total        int
}

// #endregion feedback
