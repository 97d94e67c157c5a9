package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"ytpod/config"
	"ytpod/pipeline"
	"ytpod/tinify"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "sync":
		cmdSync(args)
	case "compress":
		cmdCompress(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytpod - keep a tracking spreadsheet in sync with a YouTube channel

Usage:
  ytpod sync [flags]       Reconcile the channel catalog against the ledger,
                           append new rows, and download the clips that are
                           ready
  ytpod compress [flags]   Compress a directory of images through TinyPNG
  ytpod help               Show this help message

Examples:
  ytpod sync                       # Full run against the remote APIs
  ytpod sync -dry-run              # Classify and report only
  ytpod sync -debug                # Use the cached snapshot files
  ytpod compress -in ./img -out ./img-min

Configuration comes from environment variables (a .env file is honored)
and an optional ytpod.json config file. See the config package for the
full list of settings.

For help on a specific command: ytpod <command> -h
`)
}

func cmdSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "classify and report without appending or downloading")
	debug := fs.Bool("debug", false, "read the catalog and ledger from the cached snapshot files")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}

	ctx := context.Background()

	runner, err := pipeline.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	runner.DryRun = *dryRun

	summary, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Run %s: %d new rows, %d clips queued, %d downloaded, %d failed\n",
		summary.RunID, summary.NewRows, summary.Queued, summary.Downloaded, summary.Failed)

	if summary.AppendFailed || summary.Failed > 0 {
		os.Exit(1)
	}
}

func cmdCompress(args []string) {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	inDir := fs.String("in", "", "input directory (default from config)")
	outDir := fs.String("out", "", "output directory (default from config)")
	workers := fs.Int("workers", 0, "concurrent uploads (default from config)")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *inDir != "" {
		cfg.CompressInputDir = *inDir
	}
	if *outDir != "" {
		cfg.CompressOutputDir = *outDir
	}
	if *workers > 0 {
		cfg.CompressWorkers = *workers
	}

	if cfg.CompressInputDir == "" || cfg.CompressOutputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: input and output directories are required")
		os.Exit(1)
	}
	if cfg.TinyPNGAPIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: TINYPNG_API_KEY is required")
		os.Exit(1)
	}

	client := tinify.NewClient(cfg.TinyPNGAPIURL, cfg.TinyPNGAPIKey)

	result, err := tinify.CompressDir(context.Background(), client,
		cfg.CompressInputDir, cfg.CompressOutputDir, cfg.CompressWorkers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Printf("tinify: %d compressed, %d failed", result.Compressed, result.Failed)
	if result.Failed > 0 {
		os.Exit(1)
	}
}
