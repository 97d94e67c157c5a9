package tinify

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// DirResult reports what CompressDir did.
type DirResult struct {
	// Compressed is the number of files written to the output directory.
	Compressed int
	// Failed is the number of files whose compression failed.
	Failed int
}

// CompressDir compresses every regular file in inputDir into outputDir
// under the same name, running at most workers uploads at a time. A
// failing file is logged and counted; it never stops the others.
func CompressDir(ctx context.Context, client *Client, inputDir, outputDir string, workers int) (*DirResult, error) {
	if workers <= 0 {
		workers = 1
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result DirResult
	)
	sem := make(chan struct{}, workers)

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			in := filepath.Join(inputDir, name)
			out := filepath.Join(outputDir, name)

			if err := client.Compress(ctx, in, out); err != nil {
				log.Printf("tinify: compress %s failed: %v", in, err)
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return
			}

			log.Printf("tinify: compressed %s", in)
			mu.Lock()
			result.Compressed++
			mu.Unlock()
		}()
	}

	wg.Wait()
	return &result, nil
}
