package experiment

import (
	"fmt"

	"github.com/danielpatrickdp/shapeitup/internal/session"
)

// #region view
// Banner is one status message on the page.
type Banner struct {
	Kind string // "success" | "warning" | "error"
	Text string
}

// View is everything the page needs for one render of a session.
type View struct {
	Title     string
	Heading   string
	State     session.State
	TaskIndex int
	Labels    []string
	Prompt    string
	Submit    string
	Restart   string
	Banners   []Banner
	Finished  bool
}

// View assembles the page state for s. Feedback from the last submission is
// shown once and then cleared.
func (e *Experiment) View(s *session.Session) (View, error) {
	s.Lock()
	defer s.Unlock()

	v := View{
		Title:     e.text.Title,
		Heading:   e.Heading(s),
		State:     s.State(),
		TaskIndex: s.TaskIndex,
		Prompt:    e.text.Prompt,
		Submit:    e.text.Submit,
		Restart:   e.text.Restart,
	}
	if s.Last != nil {
		v.Banners = e.banners(*s.Last)
		s.Last = nil
	}

	if v.State == session.StateFinished {
		v.Finished = true
		score, total := s.Score()
		v.Banners = append(v.Banners, Banner{Kind: "success", Text: fmt.Sprintf(e.text.Finished, score, total)})
		return v, nil
	}

	t, err := e.current(s)
	if err != nil {
		return v, err
	}
	v.Labels = t.Labels()
	return v, nil
}

func (e *Experiment) banners(fb session.Feedback) []Banner {
	var out []Banner
	if fb.Correct {
		out = append(out, Banner{Kind: "success", Text: fmt.Sprintf(e.text.RightAnswer, fb.CorrectLabel)})
	} else {
		out = append(out, Banner{Kind: "error", Text: fmt.Sprintf(e.text.WrongAnswer, fb.CorrectLabel)})
	}
	if fb.Blocked {
		out = append(out, Banner{Kind: "warning", Text: e.text.PracticeBlocked})
	}
	if fb.Warning != "" {
		out = append(out, Banner{Kind: "warning", Text: fb.Warning})
	}
	return out
}

// #endregion view
