package report

// #region tally
// Tally counts answers in one slice of the log.
type Tally struct {
	Answered int     `json:"answered"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

func (t *Tally) add(correct bool) {
	t.Answered++
	if correct {
		t.Correct++
	}
	t.Accuracy = float64(t.Correct) / float64(t.Answered)
}

// #endregion tally

// #region summary
// Summary breaks accuracy down by style bucket and group count.
type Summary struct {
	Overall      Tally            `json:"overall"`
	Participants int              `json:"participants"`
	ByStyle      map[string]Tally `json:"by_style"`
	ByGroupCount map[int]Tally    `json:"by_group_count"`
}

// #endregion summary
