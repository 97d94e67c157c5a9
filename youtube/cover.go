package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
)

// defaultCoverHost serves video thumbnails at a fixed path per video ID.
const defaultCoverHost = "https://i3.ytimg.com"

// CoverFetcher downloads a video's cover image (the highest-resolution
// thumbnail) next to the downloaded clip.
type CoverFetcher struct {
	client *retryablehttp.Client
	// BaseURL overrides the thumbnail host, for tests.
	BaseURL string
	// OutputDir is the directory covers are written to.
	OutputDir string
}

// NewCoverFetcher creates a cover fetcher writing into outputDir.
func NewCoverFetcher(outputDir string) *CoverFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	return &CoverFetcher{
		client:    client,
		BaseURL:   defaultCoverHost,
		OutputDir: outputDir,
	}
}

// Fetch downloads the cover for videoID and writes "<stem>.jpg" into the
// output directory, returning the written path.
func (f *CoverFetcher) Fetch(ctx context.Context, videoID, stem string) (string, error) {
	url := fmt.Sprintf("%s/vi/%s/maxresdefault.jpg", f.BaseURL, videoID)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build cover request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch cover %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("fetch cover %s: %w", videoID, ErrNoThumbnail)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch cover %s: unexpected status %d", videoID, resp.StatusCode)
	}

	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(f.OutputDir, sanitizeFilename(stem)+".jpg")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create cover file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write cover file: %w", err)
	}

	return path, nil
}
