package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"ytpod/reconcile"
)

// ClipDownloader extracts the audio of a video's clip window as MP3 using
// yt-dlp, trimming with ffmpeg postprocessor arguments.
type ClipDownloader struct {
	// YtdlpPath is the path to the yt-dlp executable.
	// If empty, uses "yt-dlp" from PATH.
	YtdlpPath string
	// OutputDir is the directory clips are written to.
	OutputDir string
	// Timeout is the maximum duration for one download. Zero means no limit.
	Timeout time.Duration
}

// Download fetches the item's video and writes "<stem>.mp3" into the
// output directory, trimmed to the item's clip window.
func (d *ClipDownloader) Download(ctx context.Context, item reconcile.DownloadItem, stem string) error {
	ytdlpPath := d.YtdlpPath
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}

	outputDir := d.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	outputTemplate := filepath.Join(outputDir, sanitizeFilename(stem)+".%(ext)s")
	args := []string{
		"--extract-audio",
		"--audio-format", "mp3",
		"--postprocessor-args", fmt.Sprintf("-ss %s -to %s", item.StartTime, item.EndTime),
		"-o", outputTemplate,
		"--no-warnings",
		"https://www.youtube.com/watch?v=" + item.VideoID,
	}

	cmd := exec.CommandContext(ctx, ytdlpPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ErrYtdlpNotInstalled
		}
		if s := strings.TrimSpace(stderr.String()); s != "" {
			return fmt.Errorf("download clip %s: %w: %s", item.VideoID, err, s)
		}
		return fmt.Errorf("download clip %s: %w", item.VideoID, err)
	}

	return nil
}

// sanitizeFilename removes/replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	replacements := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := s
	for _, char := range replacements {
		result = strings.ReplaceAll(result, char, "_")
	}
	return result
}
