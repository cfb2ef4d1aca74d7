package session

import (
	"sync"
	"time"

	"github.com/danielpatrickdp/shapeitup/internal/trial"
)

// #region session
// Session holds one participant's counters and generated trials. All
// mutation of the counters goes through Advance. Callers hold the lock
// (Lock/Unlock) for the whole read-judge-advance sequence of a request.
type Session struct {
	mu  sync.Mutex
	cfg Config

	ID                string
	CreatedAt         time.Time
	TaskIndex         int
	CorrectCount      int // every correct answer, practice included
	ExperimentCorrect int
	Mode              trial.Phase
	Trials            *trial.Cache
	Last              *Feedback
}

// New returns a session at the first practice task.
func New(id string, cfg Config) *Session {
	s := &Session{
		cfg:       cfg,
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Mode:      trial.PhasePractice,
		Trials:    trial.NewCache(),
	}
	if cfg.PracticeTasks <= 0 {
		s.Mode = trial.PhaseExperiment
	}
	return s
}

// Lock acquires the session lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Config returns the run configuration.
func (s *Session) Config() Config {
	return s.cfg
}

// #endregion session

// #region state
// State derives the progression state from the task index.
func (s *Session) State() State {
	return s.stateAt(s.TaskIndex)
}

func (s *Session) stateAt(index int) State {
	switch {
	case index >= s.cfg.TotalTasks():
		return StateFinished
	case index >= s.cfg.PracticeTasks:
		return StateExperiment
	default:
		return StatePractice
	}
}

// Phase is the trial phase for the current task.
func (s *Session) Phase() trial.Phase {
	if s.State() == StatePractice {
		return trial.PhasePractice
	}
	return trial.PhaseExperiment
}

// ExperimentNumber is the 1-based experiment task number, 0 during practice.
func (s *Session) ExperimentNumber() int {
	if s.TaskIndex < s.cfg.PracticeTasks {
		return 0
	}
	return s.TaskIndex - s.cfg.PracticeTasks + 1
}

// Score returns correct experiment answers over the experiment task count.
func (s *Session) Score() (correct, total int) {
	return s.ExperimentCorrect, s.cfg.ExperimentTasks
}

// #endregion state

// #region advance
// Advance applies one judged answer:
//   - practice, wrong: nothing changes and the task must be retried;
//   - practice, right: counted and advanced, logged if LogPractice;
//   - experiment: counted when right, always advanced and logged.
//
// Mode flips to experiment exactly when the index reaches PracticeTasks.
func (s *Session) Advance(correct bool) (Transition, error) {
	from := s.State()
	if from == StateFinished {
		return Transition{From: from, To: from, Index: s.TaskIndex}, ErrFinished
	}

	tr := Transition{
		From:    from,
		Index:   s.TaskIndex,
		Phase:   s.Phase(),
		Correct: correct,
	}

	switch {
	case from == StatePractice && !correct:
		tr.Blocked = true
	case from == StatePractice:
		s.CorrectCount++
		s.TaskIndex++
		tr.Advanced = true
		tr.Log = s.cfg.LogPractice
	default:
		if correct {
			s.CorrectCount++
			s.ExperimentCorrect++
		}
		s.TaskIndex++
		tr.Advanced = true
		tr.Log = true
	}

	if s.TaskIndex >= s.cfg.PracticeTasks {
		s.Mode = trial.PhaseExperiment
	}
	tr.To = s.State()
	return tr, nil
}

// #endregion advance
