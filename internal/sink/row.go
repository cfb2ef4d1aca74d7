package sink

import (
	"strings"
)

// #region values
// IconList joins icon identifiers the way the sheet stores them.
func (r Row) IconList() string {
	return strings.Join(r.Icons, ", ")
}

// Stamp formats the timestamp in local time.
func (r Row) Stamp() string {
	return r.Timestamp.Local().Format(TimestampLayout)
}

// Values returns the sheet columns in fixed order: timestamp, mode, trial
// number, group count, chosen, correct, outcome, icons, and style when set.
func (r Row) Values() []interface{} {
	vals := []interface{}{
		r.Stamp(),
		r.Mode,
		r.Trial,
		r.GroupCount,
		r.Chosen,
		r.Correct,
		r.Outcome,
		r.IconList(),
	}
	if r.Style != "" {
		vals = append(vals, r.Style)
	}
	return vals
}

// #endregion values
