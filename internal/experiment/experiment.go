package experiment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/shapeitup/internal/session"
	"github.com/danielpatrickdp/shapeitup/internal/sink"
	"github.com/danielpatrickdp/shapeitup/internal/trial"
)

// #region errors
// ErrInvalidChoice is returned when the submitted label is not in the trial.
var ErrInvalidChoice = errors.New("choice is not a group of the current trial")

// #endregion errors

// #region deps
// Generator produces a fresh trial for a task index.
type Generator interface {
	Generate(index int, phase trial.Phase) (*trial.Trial, error)
	Validate() error
}

// Plotter renders a trial to PNG bytes.
type Plotter interface {
	Render(t *trial.Trial) ([]byte, error)
}

// Deps wires an Experiment.
type Deps struct {
	Generator  Generator
	Plotter    Plotter
	Sink       sink.Sink
	Strings    Strings
	LogTimeout time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
}

// #endregion deps

// #region experiment
// Experiment runs the trial loop for any number of independent sessions:
// serve the memoized trial for the current index, judge one answer, advance
// the session, write the log row.
type Experiment struct {
	gen     Generator
	plotter Plotter
	sink    sink.Sink
	text    Strings
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// New validates the trial generator against its assets and returns the
// experiment. Asset errors returned here are fatal for the run.
func New(d Deps) (*Experiment, error) {
	if err := d.Generator.Validate(); err != nil {
		return nil, fmt.Errorf("validate assets: %w", err)
	}
	e := &Experiment{
		gen:     d.Generator,
		plotter: d.Plotter,
		sink:    d.Sink,
		text:    d.Strings,
		timeout: d.LogTimeout,
		log:     d.Logger,
		now:     d.Now,
	}
	if e.sink == nil {
		e.sink = sink.Nop{}
	}
	if e.timeout <= 0 {
		e.timeout = 10 * time.Second
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// Strings returns the participant-facing texts.
func (e *Experiment) Strings() Strings {
	return e.text
}

// #endregion experiment

// #region current
// current returns the memoized trial for the session's task index.
// Caller holds the session lock.
func (e *Experiment) current(s *session.Session) (*trial.Trial, error) {
	if s.State() == session.StateFinished {
		return nil, session.ErrFinished
	}
	index, phase := s.TaskIndex, s.Phase()
	return s.Trials.GetOrGenerate(index, func() (*trial.Trial, error) {
		t, err := e.gen.Generate(index, phase)
		if err != nil {
			return nil, err
		}
		e.log.Debug("trial generated",
			zap.String("session", s.ID),
			zap.Int("index", index),
			zap.String("style", t.Style),
			zap.Int("groups", t.GroupCount()))
		return t, nil
	})
}

// Current returns the trial on screen for s, or ErrFinished.
func (e *Experiment) Current(s *session.Session) (*trial.Trial, error) {
	s.Lock()
	defer s.Unlock()
	return e.current(s)
}

// Plot renders the current trial of s.
func (e *Experiment) Plot(s *session.Session) ([]byte, error) {
	s.Lock()
	defer s.Unlock()
	t, err := e.current(s)
	if err != nil {
		return nil, err
	}
	return e.plotter.Render(t)
}

// Heading is the phase and task number line shown above the plot.
func (e *Experiment) Heading(s *session.Session) string {
	switch s.State() {
	case session.StatePractice:
		return fmt.Sprintf(e.text.PracticeHeading, s.TaskIndex+1)
	case session.StateExperiment:
		return fmt.Sprintf(e.text.ExperimentHeading, s.ExperimentNumber(), s.Config().ExperimentTasks)
	}
	return ""
}

// #endregion current

// #region submit
// Submit judges choice against the current trial of s and applies the
// resulting transition. A failed log write is reported in Feedback.Warning
// and does not stop the session from advancing.
func (e *Experiment) Submit(ctx context.Context, s *session.Session, choice string) (session.Feedback, error) {
	s.Lock()
	defer s.Unlock()

	t, err := e.current(s)
	if err != nil {
		return session.Feedback{}, err
	}
	if !slices.Contains(t.Labels(), choice) {
		return session.Feedback{}, fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
	}

	correct, winner := trial.Judge(t, choice)
	tr, err := s.Advance(correct)
	if err != nil {
		return session.Feedback{}, err
	}

	fb := session.Feedback{
		Correct:      correct,
		Chosen:       choice,
		CorrectLabel: t.Groups[winner].Label,
		Blocked:      tr.Blocked,
		Finished:     tr.To == session.StateFinished,
	}
	fb.Score, fb.Total = s.Score()

	e.log.Info("answer judged",
		zap.String("session", s.ID),
		zap.Int("index", tr.Index),
		zap.String("phase", string(tr.Phase)),
		zap.Bool("correct", correct),
		zap.Bool("advanced", tr.Advanced),
		zap.String("state", string(tr.To)))

	if tr.Log {
		if err := e.write(ctx, s.ID, t, tr, choice, fb.CorrectLabel); err != nil {
			e.log.Warn("log write failed", zap.String("session", s.ID), zap.Int("index", tr.Index), zap.Error(err))
			fb.Warning = fmt.Sprintf(e.text.SaveFailed, err)
		}
	}

	s.Last = &fb
	return fb, nil
}

// write makes one bounded attempt at appending the row for an answer.
func (e *Experiment) write(ctx context.Context, participant string, t *trial.Trial, tr session.Transition, chosen, correctLabel string) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	mode, outcome := e.text.ExperimentMode, e.text.Incorrect
	if tr.Phase == trial.PhasePractice {
		mode = e.text.PracticeMode
	}
	if tr.Correct {
		outcome = e.text.Correct
	}
	return e.sink.AppendRow(ctx, sink.Row{
		Timestamp:   e.now(),
		Mode:        mode,
		Trial:       tr.Index + 1,
		GroupCount:  t.GroupCount(),
		Chosen:      chosen,
		Correct:     correctLabel,
		Outcome:     outcome,
		Icons:       t.Icons(),
		Style:       t.Style,
		Participant: participant,
		IsCorrect:   tr.Correct,
	})
}

// #endregion submit
