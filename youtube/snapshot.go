package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	youtubeapi "google.golang.org/api/youtube/v3"

	"ytpod/reconcile"
)

// SnapshotLister reads the catalog from a cached raw search response on
// disk. Used in debug runs so reconciliation can be exercised without
// spending API quota.
type SnapshotLister struct {
	// Path is the snapshot file location.
	Path string
}

// ListCatalog loads and parses the snapshot file.
func (s *SnapshotLister) ListCatalog(ctx context.Context) ([]reconcile.CatalogItem, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &ListerError{Source: "snapshot", Err: fmt.Errorf("read snapshot: %w", err)}
	}

	var resp youtubeapi.SearchListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &ListerError{Source: "snapshot", Err: fmt.Errorf("parse snapshot %s: %w", s.Path, err)}
	}

	return catalogItems(&resp), nil
}
