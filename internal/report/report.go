package report

import (
	"github.com/danielpatrickdp/shapeitup/internal/sink"
)

// #region summarize
// Summarize tallies rows whose mode equals mode; an empty mode keeps all.
func Summarize(rows []sink.Row, mode string) Summary {
	s := Summary{
		ByStyle:      make(map[string]Tally),
		ByGroupCount: make(map[int]Tally),
	}
	people := make(map[string]bool)
	for _, r := range rows {
		if mode != "" && r.Mode != mode {
			continue
		}
		s.Overall.add(r.IsCorrect)

		style := r.Style
		if style == "" {
			style = "-"
		}
		st := s.ByStyle[style]
		st.add(r.IsCorrect)
		s.ByStyle[style] = st

		gc := s.ByGroupCount[r.GroupCount]
		gc.add(r.IsCorrect)
		s.ByGroupCount[r.GroupCount] = gc

		if r.Participant != "" {
			people[r.Participant] = true
		}
	}
	s.Participants = len(people)
	return s
}

// #endregion summarize
