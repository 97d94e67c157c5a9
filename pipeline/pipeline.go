// Package pipeline runs one reconciliation pass end to end: it reads the
// channel catalog and the ledger, classifies every catalog item, appends
// newly discovered videos to the ledger, and downloads the clips whose
// curated window is ready.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"ytpod/config"
	"ytpod/internal/retry"
	"ytpod/reconcile"
	"ytpod/sheet"
	"ytpod/youtube"
)

// ClipDownloader downloads and trims one work item.
type ClipDownloader interface {
	Download(ctx context.Context, item reconcile.DownloadItem, stem string) error
}

// CoverFetcher downloads one video's cover image.
type CoverFetcher interface {
	Fetch(ctx context.Context, videoID, stem string) (string, error)
}

// Summary reports what one run did.
type Summary struct {
	// RunID identifies this run in the logs.
	RunID string
	// NewRows is the number of rows classified for appending.
	NewRows int
	// Queued is the number of clips classified as ready to download.
	Queued int
	// Downloaded counts work items whose clip and cover both succeeded.
	Downloaded int
	// Failed counts work items where the clip or the cover failed.
	Failed int
	// AppendFailed is true when the ledger append call failed. Downloads
	// still proceed; classification and persistence are decoupled.
	AppendFailed bool
}

// Runner wires a catalog lister, a ledger source/writer, and the per-item
// media workers into one run.
type Runner struct {
	Catalog    youtube.CatalogLister
	Ledger     sheet.Source
	Writer     sheet.Writer
	Reconciler *reconcile.Reconciler
	Norm       *reconcile.Normalizer
	Downloader ClipDownloader
	Covers     CoverFetcher

	// DryRun classifies and reports without appending or downloading.
	DryRun bool
}

// New builds a Runner from configuration. With cfg.Debug set, the catalog
// and ledger come from the configured snapshot files instead of the remote
// APIs.
func New(ctx context.Context, cfg *config.Config) (*Runner, error) {
	norm, err := reconcile.NewNormalizer(cfg.TitleSuffix, cfg.DatePrefixPattern)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		Reconciler: reconcile.NewReconciler(norm, cfg.NoToken),
		Norm:       norm,
		Downloader: &youtube.ClipDownloader{
			YtdlpPath: cfg.YtdlpPath,
			OutputDir: cfg.DownloadDir,
			Timeout:   cfg.YtdlpTimeout,
		},
		Covers: youtube.NewCoverFetcher(cfg.DownloadDir),
	}

	if cfg.Debug {
		r.Catalog = &youtube.SnapshotLister{Path: cfg.CatalogSnapshotFile}
		r.Ledger = &sheet.SnapshotSource{Path: cfg.LedgerSnapshotFile, YesToken: cfg.YesToken}
		return r, nil
	}

	lister, err := youtube.NewAPILister(ctx, cfg.YouTubeAPIKey, cfg.ChannelID, cfg.MaxResults)
	if err != nil {
		return nil, err
	}
	lister.RetryConfig = retryConfig(cfg)
	r.Catalog = lister

	client, err := sheet.NewClient(ctx, sheet.ClientOptions{
		APIKey:          cfg.SheetAPIKey,
		CredentialsFile: cfg.CredentialsFile,
		SpreadsheetID:   cfg.SpreadsheetID,
		SheetName:       cfg.SheetName,
		Range:           cfg.SheetRange,
		YesToken:        cfg.YesToken,
	})
	if err != nil {
		return nil, err
	}
	r.Ledger = client
	r.Writer = client

	return r, nil
}

// retryConfig maps the configured retry knobs onto a retry.Config, keeping
// the default jitter fraction.
func retryConfig(cfg *config.Config) retry.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.MaxRetries
	rc.InitialBackoff = cfg.InitialBackoff
	rc.MaxBackoff = cfg.MaxBackoff
	rc.Multiplier = cfg.BackoffMultiplier
	return rc
}

// Run performs one reconciliation pass. Listing or classification errors
// abort the run before anything is written. An append failure and per-item
// download or cover failures are logged and counted but never stop the
// remaining work items.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()

	catalog, err := r.Catalog.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	log.Printf("pipeline: run %s: catalog has %d items", runID, len(catalog))

	ledger, err := r.Ledger.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	log.Printf("pipeline: run %s: ledger has %d rows", runID, len(ledger))

	result, err := r.Reconciler.Reconcile(catalog, ledger)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:   runID,
		NewRows: len(result.NewRows),
		Queued:  len(result.Downloads),
	}
	log.Printf("pipeline: run %s: %d new rows, %d clips queued",
		runID, summary.NewRows, summary.Queued)

	if r.DryRun {
		return summary, nil
	}

	if len(result.NewRows) > 0 {
		if r.Writer == nil {
			log.Printf("pipeline: run %s: no ledger writer configured, skipping append of %d rows",
				runID, len(result.NewRows))
			summary.AppendFailed = true
		} else if err := r.Writer.AppendRows(ctx, result.NewRows); err != nil {
			// Appending and downloading are decoupled; keep going.
			log.Printf("pipeline: run %s: append failed: %v", runID, err)
			summary.AppendFailed = true
		}
	}

	for _, item := range result.Downloads {
		stem := r.Norm.FileStem(item.Title)
		log.Printf("pipeline: run %s: downloading %q (%s) from %s to %s",
			runID, item.Title, item.VideoID, item.StartTime, item.EndTime)

		failed := false
		if err := r.Downloader.Download(ctx, item, stem); err != nil {
			log.Printf("pipeline: run %s: download %s failed: %v", runID, item.VideoID, err)
			failed = true
		}
		if _, err := r.Covers.Fetch(ctx, item.VideoID, stem); err != nil {
			log.Printf("pipeline: run %s: cover %s failed: %v", runID, item.VideoID, err)
			failed = true
		}

		if failed {
			summary.Failed++
		} else {
			summary.Downloaded++
		}
	}

	return summary, nil
}
