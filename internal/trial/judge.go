package trial

import (
	"gonum.org/v1/gonum/floats"
)

// #region winner
// Winner returns the index of the group with the highest mean Y. Ties go to
// the first maximum. Returns -1 for no groups.
func Winner(groups []Group) int {
	if len(groups) == 0 {
		return -1
	}
	means := make([]float64, len(groups))
	for i, g := range groups {
		means[i] = g.MeanY()
	}
	return floats.MaxIdx(means)
}

// #endregion winner

// #region judge
// Judge compares a selected label against the true winner of t.
func Judge(t *Trial, choice string) (correct bool, winner int) {
	winner = t.Winner()
	if winner < 0 {
		return false, winner
	}
	return t.Groups[winner].Label == choice, winner
}

// #endregion judge
