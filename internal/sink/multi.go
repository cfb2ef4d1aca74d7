package sink

import (
	"context"
	"errors"
)

// #region multi
// Multi writes every row to each sink in turn. A failure in one sink does
// not stop the others; the errors are joined.
type Multi []Sink

func (m Multi) AppendRow(ctx context.Context, row Row) error {
	var errs []error
	for _, s := range m {
		if err := s.AppendRow(ctx, row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// #endregion multi

// #region nop
// Nop discards rows.
type Nop struct{}

func (Nop) AppendRow(context.Context, Row) error { return nil }

func (Nop) Close() error { return nil }

// #endregion nop
