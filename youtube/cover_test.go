package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCoverFetcherWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vi/v1/maxresdefault.jpg" {
			t.Errorf("request path = %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	fetcher := NewCoverFetcher(dir)
	fetcher.BaseURL = server.URL

	path, err := fetcher.Fetch(context.Background(), "v1", "Graça")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	want := filepath.Join(dir, "Graça.jpg")
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cover: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("cover content = %q", data)
	}
}

func TestCoverFetcherNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewCoverFetcher(t.TempDir())
	fetcher.BaseURL = server.URL

	_, err := fetcher.Fetch(context.Background(), "missing", "stem")
	if !errors.Is(err, ErrNoThumbnail) {
		t.Errorf("Fetch() error = %v, want ErrNoThumbnail", err)
	}
}

func TestCoverFetcherSanitizesStem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	dir := t.TempDir()
	fetcher := NewCoverFetcher(dir)
	fetcher.BaseURL = server.URL

	path, err := fetcher.Fetch(context.Background(), "v1", "a/b:c")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if filepath.Base(path) != "a_b_c.jpg" {
		t.Errorf("file name = %s, want a_b_c.jpg", filepath.Base(path))
	}
}
