package session

import (
	"errors"
	"testing"

	"github.com/danielpatrickdp/shapeitup/internal/trial"
)

// #region advance-tests
func TestNew_InitialState(t *testing.T) {
	s := New("p1", DefaultConfig())
	if s.State() != StatePractice || s.TaskIndex != 0 || s.CorrectCount != 0 {
		t.Fatalf("unexpected initial session: %+v", s)
	}
	if s.Mode != trial.PhasePractice {
		t.Errorf("expected practice mode, got %s", s.Mode)
	}
	if s.Config().TotalTasks() != 53 {
		t.Errorf("expected 53 total tasks, got %d", s.Config().TotalTasks())
	}
}

func TestAdvance_PracticeWrongBlocks(t *testing.T) {
	s := New("p1", DefaultConfig())
	for i := 0; i < 5; i++ {
		tr, err := s.Advance(false)
		if err != nil {
			t.Fatal(err)
		}
		if !tr.Blocked || tr.Advanced || tr.Log {
			t.Fatalf("expected blocked, unlogged transition, got %+v", tr)
		}
	}
	if s.TaskIndex != 0 || s.Mode != trial.PhasePractice || s.CorrectCount != 0 {
		t.Fatalf("wrong practice answers must not change the session: %+v", s)
	}
}

func TestAdvance_PracticeToExperimentAtThree(t *testing.T) {
	s := New("p1", DefaultConfig())
	for i := 0; i < 3; i++ {
		if s.Mode != trial.PhasePractice {
			t.Fatalf("mode flipped early at index %d", s.TaskIndex)
		}
		tr, err := s.Advance(true)
		if err != nil {
			t.Fatal(err)
		}
		if !tr.Advanced || !tr.Log || tr.Phase != trial.PhasePractice {
			t.Fatalf("unexpected practice transition: %+v", tr)
		}
	}
	if s.TaskIndex != 3 {
		t.Fatalf("expected index 3, got %d", s.TaskIndex)
	}
	if s.Mode != trial.PhaseExperiment || s.State() != StateExperiment {
		t.Fatalf("expected experiment at index 3, got mode=%s state=%s", s.Mode, s.State())
	}
	if s.CorrectCount != 3 || s.ExperimentCorrect != 0 {
		t.Errorf("unexpected counters: correct=%d experiment=%d", s.CorrectCount, s.ExperimentCorrect)
	}
}

func TestAdvance_PracticeLoggingPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogPractice = false
	s := New("p1", cfg)
	tr, err := s.Advance(true)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Log {
		t.Error("expected practice answers unlogged when LogPractice is off")
	}
}

func TestAdvance_ExperimentAlwaysAdvances(t *testing.T) {
	s := New("p1", DefaultConfig())
	s.TaskIndex, s.Mode = 3, trial.PhaseExperiment

	for i, correct := range []bool{false, true, false, true, true} {
		before := s.TaskIndex
		tr, err := s.Advance(correct)
		if err != nil {
			t.Fatal(err)
		}
		if s.TaskIndex != before+1 {
			t.Fatalf("answer %d: expected index %d, got %d", i, before+1, s.TaskIndex)
		}
		if !tr.Log || !tr.Advanced || tr.Blocked || tr.Correct != correct {
			t.Fatalf("answer %d: unexpected transition %+v", i, tr)
		}
	}
	if s.ExperimentCorrect != 3 {
		t.Errorf("expected 3 experiment correct, got %d", s.ExperimentCorrect)
	}
}

func TestAdvance_FinishesAfterFiftyExperimentTrials(t *testing.T) {
	s := New("p1", DefaultConfig())
	for i := 0; i < 3; i++ {
		s.Advance(true)
	}

	offered := 0
	for s.State() != StateFinished {
		if s.State() != StateExperiment {
			t.Fatalf("unexpected state %s at %d", s.State(), s.TaskIndex)
		}
		offered++
		if _, err := s.Advance(offered%2 == 0); err != nil {
			t.Fatal(err)
		}
	}
	if offered != 50 {
		t.Fatalf("expected 50 experiment trials, got %d", offered)
	}
	if s.TaskIndex != 53 {
		t.Fatalf("expected finish at index 53, got %d", s.TaskIndex)
	}

	correct, total := s.Score()
	if correct != 25 || total != 50 {
		t.Errorf("expected score 25/50, got %d/%d", correct, total)
	}
	if s.CorrectCount != 28 {
		t.Errorf("expected 28 correct overall, got %d", s.CorrectCount)
	}

	if _, err := s.Advance(true); !errors.Is(err, ErrFinished) {
		t.Errorf("expected ErrFinished, got %v", err)
	}
	if s.TaskIndex != 53 {
		t.Errorf("finished session must not advance, got %d", s.TaskIndex)
	}
}

func TestExperimentNumber(t *testing.T) {
	s := New("p1", DefaultConfig())
	if s.ExperimentNumber() != 0 {
		t.Errorf("expected 0 during practice, got %d", s.ExperimentNumber())
	}
	s.TaskIndex = 3
	if s.ExperimentNumber() != 1 {
		t.Errorf("expected 1 at index 3, got %d", s.ExperimentNumber())
	}
	s.TaskIndex = 52
	if s.ExperimentNumber() != 50 {
		t.Errorf("expected 50 at index 52, got %d", s.ExperimentNumber())
	}
}

// #endregion advance-tests

// #region store-tests
func TestStore_CreateGetDelete(t *testing.T) {
	st, err := NewStore(DefaultConfig(), 2)
	if err != nil {
		t.Fatal(err)
	}
	a := st.Create()
	b := st.Create()
	if a.ID == b.ID || a.ID == "" {
		t.Fatalf("expected distinct ids, got %q %q", a.ID, b.ID)
	}
	if got, ok := st.Get(a.ID); !ok || got != a {
		t.Fatal("expected to find session a")
	}

	// a was just used, so c evicts b.
	c := st.Create()
	if _, ok := st.Get(b.ID); ok {
		t.Error("expected b evicted")
	}
	if st.Len() != 2 {
		t.Errorf("expected 2 live sessions, got %d", st.Len())
	}

	st.Delete(c.ID)
	if _, ok := st.Get(c.ID); ok {
		t.Error("expected c deleted")
	}
}

func TestStore_SessionsIsolated(t *testing.T) {
	st, err := NewStore(DefaultConfig(), 10)
	if err != nil {
		t.Fatal(err)
	}
	a, b := st.Create(), st.Create()
	a.Advance(true)
	if b.TaskIndex != 0 || b.CorrectCount != 0 {
		t.Fatalf("sessions share state: %+v", b)
	}
}

// #endregion store-tests
