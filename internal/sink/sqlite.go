package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS trial_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	participant   TEXT,
	logged_at     TEXT NOT NULL,
	mode          TEXT NOT NULL,
	trial         INTEGER NOT NULL,
	group_count   INTEGER NOT NULL,
	chosen        TEXT,
	correct_label TEXT,
	outcome       TEXT NOT NULL,
	is_correct    INTEGER NOT NULL,
	icons         TEXT,
	style         TEXT
);

CREATE INDEX IF NOT EXISTS idx_trial_log_participant ON trial_log(participant);
`

// #endregion schema

// #region store-struct
// SQLiteStore is a local trial log in SQLite. It serves as a sink on its
// own or next to the spreadsheet, and feeds the export/inspect commands.
type SQLiteStore struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewSQLiteStore opens a SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region append
// AppendRow inserts one row.
func (s *SQLiteStore) AppendRow(ctx context.Context, row Row) error {
	if row.Timestamp.IsZero() {
		row.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trial_log (participant, logged_at, mode, trial, group_count, chosen, correct_label, outcome, is_correct, icons, style)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(row.Participant),
		row.Stamp(),
		row.Mode,
		row.Trial,
		row.GroupCount,
		row.Chosen,
		row.Correct,
		row.Outcome,
		boolToInt(row.IsCorrect),
		row.IconList(),
		nullIfEmpty(row.Style),
	)
	if err != nil {
		return fmt.Errorf("%w: insert row: %w", ErrWrite, err)
	}
	return nil
}

// #endregion append

// #region list-rows
// ListRows returns stored rows in insertion order. limit <= 0 means all.
func (s *SQLiteStore) ListRows(limit int) ([]Row, error) {
	q := `SELECT participant, logged_at, mode, trial, group_count, chosen, correct_label, outcome, is_correct, icons, style
	      FROM trial_log ORDER BY id`
	var args []interface{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r           Row
			participant sql.NullString
			stamp       string
			chosen      sql.NullString
			correct     sql.NullString
			isCorrect   int
			icons       sql.NullString
			style       sql.NullString
		)
		if err := rows.Scan(&participant, &stamp, &r.Mode, &r.Trial, &r.GroupCount,
			&chosen, &correct, &r.Outcome, &isCorrect, &icons, &style); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.Participant = participant.String
		r.Timestamp, _ = time.ParseInLocation(TimestampLayout, stamp, time.Local)
		r.Chosen = chosen.String
		r.Correct = correct.String
		r.IsCorrect = isCorrect == 1
		if icons.String != "" {
			r.Icons = strings.Split(icons.String, ", ")
		}
		r.Style = style.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion list-rows

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
