package sink

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// #region csv-row
type csvRow struct {
	Timestamp   string `csv:"timestamp"`
	Participant string `csv:"participant"`
	Mode        string `csv:"mode"`
	Trial       int    `csv:"trial"`
	GroupCount  int    `csv:"group_count"`
	Chosen      string `csv:"chosen"`
	Correct     string `csv:"correct"`
	Outcome     string `csv:"outcome"`
	Icons       string `csv:"icons"`
	Style       string `csv:"style"`
}

// #endregion csv-row

// #region export
// ExportCSV writes rows as CSV with a header line.
func ExportCSV(rows []Row, w io.Writer) error {
	out := make([]*csvRow, len(rows))
	for i, r := range rows {
		out[i] = &csvRow{
			Timestamp:   r.Stamp(),
			Participant: r.Participant,
			Mode:        r.Mode,
			Trial:       r.Trial,
			GroupCount:  r.GroupCount,
			Chosen:      r.Chosen,
			Correct:     r.Correct,
			Outcome:     r.Outcome,
			Icons:       r.IconList(),
			Style:       r.Style,
		}
	}
	if err := gocsv.Marshal(out, w); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

// #endregion export
