// Package youtube supplies the channel catalog and performs the per-clip
// media work: listing videos through the Data API v3 (or a cached snapshot
// of it), downloading and trimming clip audio with yt-dlp, and fetching
// video cover images.
package youtube

import (
	"context"
	"errors"
	"fmt"

	youtubeapi "google.golang.org/api/youtube/v3"

	"ytpod/reconcile"
)

// Sentinel errors for catalog and media operations.
var (
	// ErrNoThumbnail indicates the video has no cover image at the
	// requested resolution.
	ErrNoThumbnail = errors.New("youtube: thumbnail not found")
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = errors.New("youtube: yt-dlp not installed")
)

// CatalogLister fetches the channel catalog, newest first. Items without a
// video ID (channel or playlist search results) are preserved; filtering
// them is the reconciler's job.
type CatalogLister interface {
	ListCatalog(ctx context.Context) ([]reconcile.CatalogItem, error)
}

// ListerError wraps errors during catalog listing.
type ListerError struct {
	// Source identifies the lister ("api", "snapshot").
	Source string
	// Channel is the channel ID being listed.
	Channel string
	// Err is the underlying error.
	Err error
}

func (e *ListerError) Error() string {
	return fmt.Sprintf("youtube: list %s via %s: %v", e.Channel, e.Source, e.Err)
}

func (e *ListerError) Unwrap() error { return e.Err }

// catalogItems maps a search response onto catalog items, keeping the
// response order (newest first).
func catalogItems(resp *youtubeapi.SearchListResponse) []reconcile.CatalogItem {
	items := make([]reconcile.CatalogItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		item := reconcile.CatalogItem{}
		if it.Id != nil {
			item.VideoID = it.Id.VideoId
		}
		if it.Snippet != nil {
			item.Title = it.Snippet.Title
			item.PublishedAt = it.Snippet.PublishedAt
			if it.Snippet.PublishedAt != "" {
				item.PublishedAt = it.Snippet.PublishedAt
			}
		}
		items = append(items, item)
	}
	return items
}
