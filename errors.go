package ytpod

import (
	"ytpod/internal/retry"
	"ytpod/reconcile"
	"ytpod/sheet"
	"ytpod/tinify"
	"ytpod/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytpod.ErrNoThumbnail) {
//		fmt.Println("video has no cover at this resolution")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var rowErr *ytpod.RowError
//	if errors.As(err, &rowErr) {
//		fmt.Printf("ledger row %d is malformed: %v\n", rowErr.Index, rowErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// ItemError identifies the catalog item that made a reconciliation
	// run fail.
	ItemError = reconcile.ItemError
	// RowError identifies a malformed ledger row.
	RowError = sheet.RowError
	// ListerError wraps errors during catalog listing.
	ListerError = youtube.ListerError
	// APIError reports a non-success response from the compression API.
	APIError = tinify.APIError
	// RetryableError wraps the last error after retries were exhausted.
	RetryableError = retry.RetryableError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrNoThumbnail indicates the video has no cover image at the
	// requested resolution.
	ErrNoThumbnail = youtube.ErrNoThumbnail
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = youtube.ErrYtdlpNotInstalled
	// ErrReadOnly indicates no append credentials were configured.
	ErrReadOnly = sheet.ErrReadOnly
	// ErrEmptyRange indicates the ledger range returned no rows at all.
	ErrEmptyRange = sheet.ErrEmptyRange
)
