package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"ytlikes/auth"
	ythttp "ytlikes/http"
	"ytlikes/internal/logger"
	"ytlikes/internal/retry"
)

// Quota costs of the Data API methods in use.
const (
	DailyQuota    = 10000
	ListQuotaCost = 1
	RateQuotaCost = 50
)

var transientReasons = map[string]bool{
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"backendError":          true,
	"internalError":         true,
}

// QuotaTracker keeps a running estimate of the day's remaining API quota
// and warns once when it drops below the reserve.
type QuotaTracker struct {
	mu        sync.Mutex
	remaining int
	reserve   int
	warned    bool
	log       *logger.Logger
}

// NewQuotaTracker starts from the full daily quota.
func NewQuotaTracker(reserve int, log *logger.Logger) *QuotaTracker {
	return &QuotaTracker{remaining: DailyQuota, reserve: reserve, log: log}
}

// Use subtracts units from the estimate.
func (q *QuotaTracker) Use(units int) {
	if q == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	q.remaining -= units
	if q.remaining < q.reserve && !q.warned {
		q.warned = true
		q.log.Warnf("Estimated API quota is low (%d units left, reserve %d)", q.remaining, q.reserve)
	}
}

// Remaining returns the estimated remaining quota units.
func (q *QuotaTracker) Remaining() int {
	if q == nil {
		return DailyQuota
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.remaining
}

// APIClient implements Client on top of the YouTube Data API v3.
type APIClient struct {
	service *ytapi.Service
	retry   retry.Config
	quota   *QuotaTracker
}

// NewAPIClient creates a client sending requests through httpClient.
// Extra options are passed to the service constructor.
func NewAPIClient(ctx context.Context, httpClient *http.Client, retryCfg retry.Config, quota *QuotaTracker, opts ...option.ClientOption) (*APIClient, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	service, err := ytapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &APIClient{service: service, retry: retryCfg, quota: quota}, nil
}

// ListPlaylistItems fetches one page of a playlist.
func (c *APIClient) ListPlaylistItems(ctx context.Context, q PlaylistQuery) (*PlaylistPage, error) {
	var page *PlaylistPage
	err := retry.Do(ctx, c.retry, isTransientAPIError, func(ctx context.Context) error {
		call := c.service.PlaylistItems.List(q.Part).
			PlaylistId(q.PlaylistID).
			MaxResults(q.MaxResults).
			Context(ctx)
		if q.PageToken != "" {
			call = call.PageToken(q.PageToken)
		}

		resp, err := call.Do()
		c.quota.Use(ListQuotaCost)
		if err != nil {
			return err
		}

		page = &PlaylistPage{
			Items:         resp.Items,
			NextPageToken: resp.NextPageToken,
			PageInfo:      resp.PageInfo,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// RateVideo sets the rating ("like", "dislike" or "none") of a video.
func (c *APIClient) RateVideo(ctx context.Context, videoID, rating string) error {
	return retry.Do(ctx, c.retry, isTransientAPIError, func(ctx context.Context) error {
		err := c.service.Videos.Rate(videoID, rating).Context(ctx).Do()
		c.quota.Use(RateQuotaCost)
		return err
	})
}

// isTransientAPIError reports whether a Data API call may succeed when
// repeated: server errors, throttling and network failures.
func isTransientAPIError(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}
	if errors.Is(err, ythttp.ErrCircuitOpen) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || ythttp.IsServerError(apiErr.Code) {
			return true
		}
		for _, item := range apiErr.Errors {
			if transientReasons[item.Reason] {
				return true
			}
		}
		return false
	}

	var tokenErr *oauth2.RetrieveError
	if errors.As(err, &tokenErr) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// HTTPClientSource supplies OAuth-authorized HTTP clients.
type HTTPClientSource interface {
	HTTPClient(ctx context.Context, profile string, req auth.Request) (*http.Client, error)
}

// APIClientProvider implements ClientProvider with the Data API.
type APIClientProvider struct {
	Source HTTPClientSource
	Retry  retry.Config
	Quota  *QuotaTracker
	// Options are passed to every service constructor.
	Options []option.ClientOption
}

// Client returns an API client authorized for req.
func (p *APIClientProvider) Client(ctx context.Context, profile string, req ClientRequest) (Client, error) {
	scope := ytapi.YoutubeReadonlyScope
	if req.Access == FullAccess {
		scope = ytapi.YoutubeScope
	}

	httpClient, err := p.Source.HTTPClient(ctx, profile, auth.Request{
		Scopes:    []string{scope},
		Temporary: req.Temporary,
	})
	if err != nil {
		return nil, err
	}
	return NewAPIClient(ctx, httpClient, p.Retry, p.Quota, p.Options...)
}
