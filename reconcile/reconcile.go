// Package reconcile matches a channel's video catalog against the tracking
// ledger and classifies every catalog item: videos the ledger does not know
// yet become new ledger rows, and tracked videos with a curated clip window
// that have not been downloaded or published become download work items.
//
// The package is pure: it operates on in-memory slices, performs no I/O,
// and keeps no state between calls, so repeated runs over the same input
// produce identical output.
package reconcile

import (
	"fmt"
	"time"
)

// ZeroTime is the sentinel clip bound meaning "no window set". It is both
// the value tested on ledger rows and the default written into new rows.
const ZeroTime = "00:00:00"

// watchURL is the prefix of the canonical watch page for a video ID.
const watchURL = "https://www.youtube.com/watch?v="

// CatalogItem is one video discovered in the channel catalog. Items whose
// VideoID is empty (the catalog may contain non-video search results) are
// skipped during reconciliation.
type CatalogItem struct {
	// VideoID is the opaque video identifier.
	VideoID string
	// Title is the raw, channel-suffixed catalog title.
	Title string
	// PublishedAt is the RFC 3339 publish timestamp.
	PublishedAt string
}

// LedgerRow is one tracked entry, as stored in the spreadsheet. Titles in
// the ledger are already normalized.
type LedgerRow struct {
	Year       string
	Title      string
	Link       string
	StartTime  string
	EndTime    string
	Downloaded bool
	Online     bool
}

// DownloadItem is a tracked video whose curated clip window is ready to be
// fetched and trimmed. Title, StartTime and EndTime come from the ledger
// row, which is the source of truth for the clip window.
type DownloadItem struct {
	VideoID   string
	Title     string
	StartTime string
	EndTime   string
}

// Result holds the two outputs of a reconciliation run. Both slices are in
// the catalog's reverse-publish order (oldest discovered item first), so
// rows appended to the ledger stay chronological even though the catalog
// arrives newest first.
type Result struct {
	// NewRows are literal ledger rows for videos the ledger does not track
	// yet, in the ledger's column order:
	// year, title, link, start, end, downloaded flag, online flag.
	NewRows [][]string
	// Downloads are the clips ready to fetch.
	Downloads []DownloadItem
}

// ItemError reports the catalog item that made a reconciliation run fail.
type ItemError struct {
	VideoID string
	Title   string
	Err     error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("reconcile: video %s (%q): %v", e.VideoID, e.Title, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Reconciler classifies catalog items against ledger rows. It is stateless
// and safe for concurrent use.
type Reconciler struct {
	norm    *Normalizer
	noToken string
}

// NewReconciler creates a Reconciler. noToken is the ledger's "No" token,
// written into the downloaded/online flag columns of new rows.
func NewReconciler(norm *Normalizer, noToken string) *Reconciler {
	return &Reconciler{norm: norm, noToken: noToken}
}

// Reconcile walks the catalog oldest-first and matches each item against
// the ledger by normalized title. Unmatched items yield a new ledger row;
// matched items yield a download work item when the row is neither online
// nor downloaded and has a clip window set. Matched rows that are online,
// downloaded, or windowless yield nothing.
//
// Matching is exact string equality on the normalized title; the first
// equal ledger row (in ledger order) wins and later duplicates are never
// considered. An unparseable publish timestamp on an unmatched item aborts
// the run with an *ItemError and no partial output.
func (r *Reconciler) Reconcile(catalog []CatalogItem, ledger []LedgerRow) (*Result, error) {
	result := &Result{}

	for i := len(catalog) - 1; i >= 0; i-- {
		item := catalog[i]
		if item.VideoID == "" {
			continue
		}

		title := r.norm.Normalize(item.Title)

		matched := false
		for _, row := range ledger {
			if row.Title != title {
				continue
			}
			matched = true
			if !row.Online && !row.Downloaded && row.StartTime != ZeroTime && row.EndTime != ZeroTime {
				result.Downloads = append(result.Downloads, DownloadItem{
					VideoID:   item.VideoID,
					Title:     row.Title,
					StartTime: row.StartTime,
					EndTime:   row.EndTime,
				})
			}
			break
		}
		if matched {
			continue
		}

		year, err := publishYear(item.PublishedAt)
		if err != nil {
			return nil, &ItemError{VideoID: item.VideoID, Title: item.Title, Err: err}
		}
		result.NewRows = append(result.NewRows, []string{
			year,
			title,
			watchURL + item.VideoID,
			ZeroTime,
			ZeroTime,
			ZeroTime,
			r.noToken,
			r.noToken,
		})
	}

	return result, nil
}

// publishYear extracts the four-digit year from an RFC 3339 timestamp.
func publishYear(ts string) (string, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return "", fmt.Errorf("parse publish timestamp: %w", err)
	}
	return fmt.Sprintf("%d", t.UTC().Year()), nil
}
