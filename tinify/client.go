// Package tinify compresses images through the TinyPNG API: each file is
// uploaded, the API responds with a URL for the compressed result, and the
// result is downloaded to the output directory.
package tinify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-retryablehttp"
)

// APIError reports a non-success response from the compression API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tinify: api status %d: %s", e.Status, e.Body)
}

// Client talks to the TinyPNG shrink endpoint.
type Client struct {
	client *retryablehttp.Client
	apiURL string
	apiKey string
}

// NewClient creates a compression client for the given endpoint and key.
func NewClient(apiURL, apiKey string) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil
	return &Client{client: client, apiURL: apiURL, apiKey: apiKey}
}

// shrinkResponse is the relevant part of the API's response.
type shrinkResponse struct {
	Output struct {
		URL string `json:"url"`
	} `json:"output"`
}

// Compress uploads the file at inputPath and writes the compressed result
// to outputPath.
func (c *Client) Compress(ctx context.Context, inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build shrink request: %w", err)
	}
	req.SetBasicAuth("api", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("shrink %s: %w", inputPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	var shrunk shrinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&shrunk); err != nil {
		return fmt.Errorf("parse shrink response: %w", err)
	}
	if shrunk.Output.URL == "" {
		return fmt.Errorf("shrink response missing output url")
	}

	return c.download(ctx, shrunk.Output.URL, outputPath)
}

// download fetches the compressed result to outputPath.
func (c *Client) download(ctx context.Context, url, outputPath string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build result request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}
