package sink

import (
	"context"
	"errors"
	"time"
)

// #region errors
// ErrWrite marks a failed append. Callers treat it as non-fatal.
var ErrWrite = errors.New("log write failed")

// #endregion errors

// #region row
// TimestampLayout is the local-time format of the first column.
const TimestampLayout = "2006-01-02 15:04:05"

// Row is one completed trial. Values gives the column order used by every
// backend; Participant and IsCorrect are kept for local analysis only.
type Row struct {
	Timestamp   time.Time
	Mode        string
	Trial       int // 1-based
	GroupCount  int
	Chosen      string
	Correct     string
	Outcome     string
	Icons       []string
	Style       string
	Participant string
	IsCorrect   bool
}

// #endregion row

// #region sink
// Sink is an append-only destination for rows. A single AppendRow call is
// one attempt; implementations do not retry or queue.
type Sink interface {
	AppendRow(ctx context.Context, row Row) error
	Close() error
}

// #endregion sink
