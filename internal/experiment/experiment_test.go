package experiment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/shapeitup/internal/assets"
	"github.com/danielpatrickdp/shapeitup/internal/session"
	"github.com/danielpatrickdp/shapeitup/internal/sink"
	"github.com/danielpatrickdp/shapeitup/internal/trial"
)

// #region fakes
type fakeGen struct {
	calls map[int]int
	err   error
}

func (f *fakeGen) Validate() error { return f.err }

// Generate returns three groups with means 0.3, 0.9, 0.5 so "B" always wins.
func (f *fakeGen) Generate(index int, phase trial.Phase) (*trial.Trial, error) {
	f.calls[index]++
	mk := func(label string, y float64) trial.Group {
		return trial.Group{Label: label, Icon: strings.ToLower(label) + "_filled.png", Points: []trial.Point{{X: 0.5, Y: y}}}
	}
	return &trial.Trial{
		Index:  index,
		Phase:  phase,
		Style:  "filled",
		Groups: []trial.Group{mk("A", 0.3), mk("B", 0.9), mk("C", 0.5)},
	}, nil
}

type fakePlotter struct{}

func (fakePlotter) Render(t *trial.Trial) ([]byte, error) {
	return []byte(fmt.Sprintf("plot-%d", t.Index)), nil
}

type recordSink struct {
	rows []sink.Row
	err  error
}

func (r *recordSink) AppendRow(_ context.Context, row sink.Row) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, row)
	return nil
}

func (r *recordSink) Close() error { return nil }

type blockingSink struct{}

func (blockingSink) AppendRow(ctx context.Context, _ sink.Row) error {
	<-ctx.Done()
	return fmt.Errorf("%w: %w", sink.ErrWrite, ctx.Err())
}

func (blockingSink) Close() error { return nil }

func setup(t *testing.T, sk sink.Sink) (*Experiment, *fakeGen, *session.Session) {
	t.Helper()
	gen := &fakeGen{calls: map[int]int{}}
	e, err := New(Deps{
		Generator: gen,
		Plotter:   fakePlotter{},
		Sink:      sk,
		Strings:   DefaultStrings(),
		Now:       func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local) },
	})
	if err != nil {
		t.Fatalf("new experiment: %v", err)
	}
	return e, gen, session.New("p-1", session.DefaultConfig())
}

// #endregion fakes

// #region new-tests
func TestNew_AssetErrorIsFatal(t *testing.T) {
	gen := &fakeGen{calls: map[int]int{}, err: &assets.InsufficientAssetsError{Style: assets.StyleOpen, Have: 1, Need: 3}}
	_, err := New(Deps{Generator: gen, Plotter: fakePlotter{}})
	if !errors.Is(err, assets.ErrInsufficientAssets) {
		t.Fatalf("expected ErrInsufficientAssets, got %v", err)
	}
	if !strings.Contains(err.Error(), "open") {
		t.Errorf("expected the bucket named in %q", err)
	}
}

// #endregion new-tests

// #region practice-tests
func TestSubmit_PracticeWrongRetriesSameTrial(t *testing.T) {
	rec := &recordSink{}
	e, gen, s := setup(t, rec)

	first, err := e.Current(s)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := e.Submit(context.Background(), s, "A")
	if err != nil {
		t.Fatal(err)
	}
	if fb.Correct || !fb.Blocked || fb.CorrectLabel != "B" {
		t.Fatalf("unexpected feedback: %+v", fb)
	}
	if s.TaskIndex != 0 || s.Mode != trial.PhasePractice {
		t.Fatalf("wrong practice answer advanced the session: index=%d mode=%s", s.TaskIndex, s.Mode)
	}
	if len(rec.rows) != 0 {
		t.Errorf("expected no log row, got %d", len(rec.rows))
	}

	again, err := e.Current(s)
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Error("expected the identical trial after a failed practice answer")
	}
	if gen.calls[0] != 1 {
		t.Errorf("expected one generation for index 0, got %d", gen.calls[0])
	}
}

func TestSubmit_PracticeCorrectLogged(t *testing.T) {
	rec := &recordSink{}
	e, _, s := setup(t, rec)

	for i := 0; i < 3; i++ {
		if _, err := e.Submit(context.Background(), s, "B"); err != nil {
			t.Fatal(err)
		}
	}
	if s.TaskIndex != 3 || s.Mode != trial.PhaseExperiment {
		t.Fatalf("expected experiment at index 3, got index=%d mode=%s", s.TaskIndex, s.Mode)
	}
	if len(rec.rows) != 3 {
		t.Fatalf("expected 3 practice rows, got %d", len(rec.rows))
	}
	for i, r := range rec.rows {
		if r.Mode != "latihan" || r.Outcome != "Benar" || r.Trial != i+1 {
			t.Errorf("row %d: unexpected %+v", i, r)
		}
	}
	r := rec.rows[0]
	if r.GroupCount != 3 || r.Chosen != "B" || r.Correct != "B" || r.Style != "filled" || r.Participant != "p-1" {
		t.Errorf("unexpected row fields: %+v", r)
	}
	if got := r.Values()[0]; got != "2026-01-02 03:04:05" {
		t.Errorf("unexpected timestamp column %v", got)
	}
}

// #endregion practice-tests

// #region experiment-tests
func TestSubmit_ExperimentOneRowPerAnswer(t *testing.T) {
	rec := &recordSink{}
	e, _, s := setup(t, rec)
	for i := 0; i < 3; i++ {
		e.Submit(context.Background(), s, "B")
	}
	rec.rows = nil

	choices := []string{"A", "B", "C", "B"}
	for i, c := range choices {
		before := s.TaskIndex
		fb, err := e.Submit(context.Background(), s, c)
		if err != nil {
			t.Fatal(err)
		}
		if s.TaskIndex != before+1 {
			t.Fatalf("answer %d did not advance", i)
		}
		if len(rec.rows) != i+1 {
			t.Fatalf("expected %d rows, got %d", i+1, len(rec.rows))
		}
		want := "Salah"
		if fb.Correct {
			want = "Benar"
		}
		if got := rec.rows[i]; got.Outcome != want || got.Mode != "eksperimen" || got.IsCorrect != fb.Correct {
			t.Errorf("row %d: unexpected %+v", i, got)
		}
	}
	if s.ExperimentCorrect != 2 {
		t.Errorf("expected 2 experiment correct, got %d", s.ExperimentCorrect)
	}
}

func TestSubmit_LogFailureDoesNotBlock(t *testing.T) {
	e, _, s := setup(t, &recordSink{err: sink.ErrWrite})
	s.TaskIndex, s.Mode = 3, trial.PhaseExperiment

	fb, err := e.Submit(context.Background(), s, "A")
	if err != nil {
		t.Fatalf("log failure must not surface as an error: %v", err)
	}
	if fb.Warning == "" || !strings.HasPrefix(fb.Warning, "Gagal menyimpan data") {
		t.Errorf("expected a save warning, got %q", fb.Warning)
	}
	if s.TaskIndex != 4 {
		t.Errorf("expected index 4, got %d", s.TaskIndex)
	}
}

func TestSubmit_LogTimeoutBounded(t *testing.T) {
	gen := &fakeGen{calls: map[int]int{}}
	e, err := New(Deps{Generator: gen, Plotter: fakePlotter{}, Sink: blockingSink{}, Strings: DefaultStrings(), LogTimeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	s := session.New("p-2", session.DefaultConfig())
	s.TaskIndex, s.Mode = 3, trial.PhaseExperiment

	start := time.Now()
	fb, err := e.Submit(context.Background(), s, "B")
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("log write was not bounded")
	}
	if fb.Warning == "" {
		t.Error("expected a warning after the timeout")
	}
	if s.TaskIndex != 4 {
		t.Errorf("expected index 4, got %d", s.TaskIndex)
	}
}

func TestSubmit_InvalidChoice(t *testing.T) {
	rec := &recordSink{}
	e, _, s := setup(t, rec)
	_, err := e.Submit(context.Background(), s, "Z")
	if !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
	if s.TaskIndex != 0 || len(rec.rows) != 0 {
		t.Error("invalid choice must not change the session")
	}
}

func TestSubmit_RunToFinish(t *testing.T) {
	rec := &recordSink{}
	e, _, s := setup(t, rec)
	for s.State() != session.StateFinished {
		if _, err := e.Submit(context.Background(), s, "B"); err != nil {
			t.Fatal(err)
		}
	}
	if s.TaskIndex != 53 || len(rec.rows) != 53 {
		t.Fatalf("expected 53 answers logged, got index=%d rows=%d", s.TaskIndex, len(rec.rows))
	}

	if _, err := e.Submit(context.Background(), s, "B"); !errors.Is(err, session.ErrFinished) {
		t.Errorf("expected ErrFinished, got %v", err)
	}
	if _, err := e.Plot(s); !errors.Is(err, session.ErrFinished) {
		t.Errorf("expected no plot after finishing, got %v", err)
	}

	v, err := e.View(s)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Finished {
		t.Fatal("expected finished view")
	}
	last := v.Banners[len(v.Banners)-1]
	if last.Text != "Eksperimen selesai! Skor akhir Anda: 50 dari 50." {
		t.Errorf("unexpected summary %q", last.Text)
	}
}

// #endregion experiment-tests

// #region view-tests
func TestHeading(t *testing.T) {
	e, _, s := setup(t, sink.Nop{})
	if got := e.Heading(s); got != "Tugas Latihan #1" {
		t.Errorf("unexpected practice heading %q", got)
	}
	s.TaskIndex = 3
	if got := e.Heading(s); got != "Tugas Eksperimen #1 dari 50" {
		t.Errorf("unexpected experiment heading %q", got)
	}
}

func TestView_FeedbackShownOnce(t *testing.T) {
	e, _, s := setup(t, sink.Nop{})
	if _, err := e.Submit(context.Background(), s, "C"); err != nil {
		t.Fatal(err)
	}

	v, err := e.View(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Banners) != 2 || v.Banners[0].Kind != "error" || v.Banners[1].Kind != "warning" {
		t.Fatalf("unexpected banners: %+v", v.Banners)
	}
	if len(v.Labels) != 3 {
		t.Errorf("expected 3 labels, got %v", v.Labels)
	}

	v, err = e.View(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Banners) != 0 {
		t.Errorf("expected banners cleared, got %+v", v.Banners)
	}
}

func TestPlot_CurrentTrial(t *testing.T) {
	e, _, s := setup(t, sink.Nop{})
	s.TaskIndex = 7
	got, err := e.Plot(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "plot-7" {
		t.Errorf("unexpected plot %q", got)
	}
}

// #endregion view-tests
