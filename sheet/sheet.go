// Package sheet reads and appends rows of the tracking ledger, a Google
// Sheets spreadsheet with one row per tracked video:
// year, title, link, start time, end time, downloaded flag, online flag.
package sheet

import (
	"context"
	"errors"
	"fmt"

	"ytpod/reconcile"
)

// Sentinel errors for ledger operations.
var (
	// ErrReadOnly indicates no append credentials were configured.
	ErrReadOnly = errors.New("sheet: no credentials for append")
	// ErrEmptyRange indicates the configured range returned no rows at all,
	// not even a header.
	ErrEmptyRange = errors.New("sheet: range returned no rows")
)

// Source supplies the ledger rows for one run, header row excluded.
type Source interface {
	ListRows(ctx context.Context) ([]reconcile.LedgerRow, error)
}

// Writer appends new rows to the ledger in one batch.
type Writer interface {
	AppendRows(ctx context.Context, rows [][]string) error
}

// RowError reports a malformed ledger row. Index is the zero-based row
// position within the fetched range, header included.
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("sheet: row %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// parseRows converts raw sheet values into ledger rows. The first row is
// the header and is skipped. A row with fewer than seven cells is rejected
// rather than silently dropped, so a shifted column never produces a
// silent mismatch. Flag cells are true only when they equal yesToken
// exactly; any other value reads as false.
func parseRows(values [][]interface{}, yesToken string) ([]reconcile.LedgerRow, error) {
	var rows []reconcile.LedgerRow

	for i, raw := range values {
		if i == 0 {
			continue
		}
		if len(raw) < 7 {
			return nil, &RowError{Index: i, Err: fmt.Errorf("expected 7 cells, got %d", len(raw))}
		}
		rows = append(rows, reconcile.LedgerRow{
			Year:       cell(raw, 0),
			Title:      cell(raw, 1),
			Link:       cell(raw, 2),
			StartTime:  cell(raw, 3),
			EndTime:    cell(raw, 4),
			Downloaded: cell(raw, 5) == yesToken,
			Online:     cell(raw, 6) == yesToken,
		})
	}

	return rows, nil
}

// cell returns the string form of one cell. The Sheets API reports cells
// as interface{} values; anything non-string is rendered with fmt.
func cell(row []interface{}, i int) string {
	if s, ok := row[i].(string); ok {
		return s
	}
	return fmt.Sprint(row[i])
}
