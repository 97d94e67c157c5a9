package youtube

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"ytpod/internal/retry"
	"ytpod/reconcile"
)

// APILister lists the channel catalog through the YouTube Data API v3
// search endpoint, ordered by publish date descending, as a single page of
// up to MaxResults items.
type APILister struct {
	service    *youtubeapi.Service
	channelID  string
	maxResults int64
	// RetryConfig controls retries of the search call.
	RetryConfig retry.Config
}

// NewAPILister creates an API-backed catalog lister.
func NewAPILister(ctx context.Context, apiKey, channelID string, maxResults int) (*APILister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}
	if channelID == "" {
		return nil, fmt.Errorf("youtube: channel id required")
	}

	service, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &APILister{
		service:     service,
		channelID:   channelID,
		maxResults:  int64(maxResults),
		RetryConfig: retry.DefaultConfig(),
	}, nil
}

// ListCatalog fetches the most recent videos for the channel, newest first.
func (a *APILister) ListCatalog(ctx context.Context) ([]reconcile.CatalogItem, error) {
	var resp *youtubeapi.SearchListResponse

	err := retry.Do(ctx, a.RetryConfig, apiRetryable, func(ctx context.Context) error {
		var callErr error
		resp, callErr = a.service.Search.List([]string{"snippet", "id"}).
			ChannelId(a.channelID).
			Order("date").
			MaxResults(a.maxResults).
			Context(ctx).
			Do()
		return callErr
	})
	if err != nil {
		return nil, &ListerError{Source: "api", Channel: a.channelID, Err: err}
	}

	return catalogItems(resp), nil
}

// apiRetryable treats client errors as permanent except for rate limiting;
// server errors and transport failures are retried.
func apiRetryable(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 {
			return true
		}
		return apiErr.Code >= 500
	}
	return retry.IsRetryable(err)
}
