package sink

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// #region config
// SheetsConfig points at one worksheet of a spreadsheet.
type SheetsConfig struct {
	CredentialsFile string // service-account JSON
	SpreadsheetID   string
	Sheet           string // tab name; empty means the first worksheet, whatever its name
}

// #endregion config

// #region sheets-sink
// SheetsSink appends rows to a Google Sheets worksheet.
type SheetsSink struct {
	svc   *sheets.Service
	id    string
	sheet string
}

// NewSheetsSink builds the Sheets client. Extra options come after the
// credentials option, so tests can swap the endpoint and HTTP client.
func NewSheetsSink(ctx context.Context, cfg SheetsConfig, opts ...option.ClientOption) (*SheetsSink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id required")
	}
	var all []option.ClientOption
	if cfg.CredentialsFile != "" {
		all = append(all,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
	}
	all = append(all, opts...)

	svc, err := sheets.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &SheetsSink{svc: svc, id: cfg.SpreadsheetID, sheet: cfg.Sheet}, nil
}

// AppendRow appends one row below the last row of the worksheet.
func (s *SheetsSink) AppendRow(ctx context.Context, row Row) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{row.Values()}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.id, s.rangeA1(), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: sheets append: %w", ErrWrite, err)
	}
	return nil
}

// Close is a no-op; the client holds no long-lived resources.
func (s *SheetsSink) Close() error {
	return nil
}

// rangeA1 targets the named tab, or the first worksheet when no tab is set.
func (s *SheetsSink) rangeA1() string {
	if s.sheet == "" {
		return "A1"
	}
	return "'" + strings.ReplaceAll(s.sheet, "'", "''") + "'"
}

// #endregion sheets-sink
