package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"google.golang.org/api/sheets/v4"

	"ytpod/reconcile"
)

// SnapshotSource reads ledger rows from a cached values response on disk,
// as saved from a previous API call. Used in debug runs so reconciliation
// can be exercised without touching the remote spreadsheet.
type SnapshotSource struct {
	// Path is the snapshot file location.
	Path string
	// YesToken is the ledger's "Yes" literal for the flag columns.
	YesToken string
}

// ListRows loads and parses the snapshot file.
func (s *SnapshotSource) ListRows(ctx context.Context) ([]reconcile.LedgerRow, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read ledger snapshot: %w", err)
	}

	var vr sheets.ValueRange
	if err := json.Unmarshal(data, &vr); err != nil {
		return nil, fmt.Errorf("parse ledger snapshot %s: %w", s.Path, err)
	}
	if len(vr.Values) == 0 {
		return nil, ErrEmptyRange
	}

	return parseRows(vr.Values, s.YesToken)
}
