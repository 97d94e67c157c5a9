// Package ytpod keeps a tracking spreadsheet synchronized with a YouTube
// channel's catalog.
//
// Each run lists the channel's videos and the ledger's rows, matches them
// by normalized title, appends a row for every video the ledger does not
// know yet, and downloads the audio clip of every tracked video whose
// curated clip window is set but not yet downloaded or published.
//
// # Overview
//
// The work is split across focused sub-packages:
//
//   - reconcile: the pure matching and classification core
//   - youtube: catalog listing, clip download (yt-dlp), cover images
//   - sheet: ledger reads and appends (Google Sheets)
//   - pipeline: one run end to end
//   - tinify: the companion image compression tool
//   - config: configuration management
//
// # Quick Start
//
// Run one reconciliation pass:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	runner, err := pipeline.New(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	summary, err := runner.Run(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%d new rows, %d clips downloaded\n", summary.NewRows, summary.Downloaded)
//
// Use the core directly over already-materialized data:
//
//	norm, _ := reconcile.NewNormalizer(" - Luterana Biguaçu", `^Mensagem \d{2}/\d{2} - `)
//	r := reconcile.NewReconciler(norm, "Não")
//	result, err := r.Reconcile(catalog, ledger)
//
// # Configuration
//
// Settings load from environment variables (highest priority), an optional
// ytpod.json file in the working directory or ~/.config/ytpod/, and
// defaults. A .env file in the working directory is honored. See the
// config package for every setting; the notable ones:
//
//   - YOUTUBE_API_KEY, YOUTUBE_CHANNEL_ID: catalog access
//   - SPREADSHEET_API_KEY, SPREADSHEET_ID, SPREADSHEET_CREDENTIALS_FILE:
//     ledger access
//   - SPREADSHEET_SHEET_NAME, SPREADSHEET_SHEET_RANGE: ledger location
//   - DOWNLOAD_FOLDER: where clips and covers are written
//   - CHANNEL_TITLE_SUFFIX: the literal suffix stripped before matching
//   - DEBUG: read cached snapshot files instead of the remote APIs
//
// # Error Handling
//
// All operations return errors that support errors.Is and errors.As:
//
//	var itemErr *reconcile.ItemError
//	if errors.As(err, &itemErr) {
//		fmt.Printf("reconciliation stopped at %s: %v\n", itemErr.VideoID, itemErr.Err)
//	}
//
// # Dependencies
//
// Clip downloads require yt-dlp to be installed and available in PATH or
// via YTPOD_YTDLP_PATH.
//
// Install yt-dlp: https://github.com/yt-dlp/yt-dlp
package ytpod
