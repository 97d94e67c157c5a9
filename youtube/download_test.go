package youtube

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ytpod/reconcile"
)

// writeFakeYtdlp installs a shell script that records its arguments.
func writeFakeYtdlp(t *testing.T) (binPath, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args.txt")
	binPath = filepath.Join(dir, "yt-dlp")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > " + argsFile + "\n"
	if err := os.WriteFile(binPath, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return binPath, argsFile
}

func TestClipDownloaderArguments(t *testing.T) {
	binPath, argsFile := writeFakeYtdlp(t)
	outDir := t.TempDir()

	d := &ClipDownloader{
		YtdlpPath: binPath,
		OutputDir: outDir,
		Timeout:   time.Minute,
	}
	item := reconcile.DownloadItem{
		VideoID:   "v1",
		Title:     "Mensagem 03/04 - Graça",
		StartTime: "00:10:00",
		EndTime:   "00:40:00",
	}

	if err := d.Download(context.Background(), item, "Graça"); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	args := strings.Split(strings.TrimSpace(string(data)), "\n")

	wantArgs := []string{
		"--extract-audio",
		"--audio-format", "mp3",
		"--postprocessor-args", "-ss 00:10:00 -to 00:40:00",
		"-o", filepath.Join(outDir, "Graça.%(ext)s"),
		"--no-warnings",
		"https://www.youtube.com/watch?v=v1",
	}
	if len(args) != len(wantArgs) {
		t.Fatalf("got %d args %v, want %d", len(args), args, len(wantArgs))
	}
	for i := range wantArgs {
		if args[i] != wantArgs[i] {
			t.Errorf("arg[%d] = %q, want %q", i, args[i], wantArgs[i])
		}
	}
}

func TestClipDownloaderMissingBinary(t *testing.T) {
	d := &ClipDownloader{
		YtdlpPath: "yt-dlp-definitely-not-installed",
		OutputDir: t.TempDir(),
	}
	item := reconcile.DownloadItem{VideoID: "v1", StartTime: "00:00:01", EndTime: "00:00:02"}

	err := d.Download(context.Background(), item, "stem")
	if !errors.Is(err, ErrYtdlpNotInstalled) {
		t.Errorf("Download() error = %v, want ErrYtdlpNotInstalled", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a/b\\c:d", "a_b_c_d"},
		{`q?"<>|`, "q_____"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
