package youtube

import (
	"context"
	"errors"
	"strconv"
	"time"

	ytapi "google.golang.org/api/youtube/v3"

	"ytlikes/internal/logger"
)

const (
	// LikedPlaylistID is the special playlist holding the user's liked videos.
	LikedPlaylistID = "LL"
	// PageSize is the largest page playlistItems.list returns.
	PageSize = 50
	// DefaultPageDelay is the pause after each fetched page.
	DefaultPageDelay = 300 * time.Millisecond
)

var errEmptyPage = errors.New("youtube: empty playlist page")

// PlaylistQuery selects one page of a playlist.
type PlaylistQuery struct {
	PlaylistID string
	Part       []string
	MaxResults int64
	PageToken  string
}

// PlaylistPage is one page of playlist items.
type PlaylistPage struct {
	Items         []*ytapi.PlaylistItem
	NextPageToken string
	// PageInfo carries the total results hint; nil when the API omitted it.
	PageInfo *ytapi.PageInfo
}

// PlaylistService lists playlist pages.
type PlaylistService interface {
	ListPlaylistItems(ctx context.Context, q PlaylistQuery) (*PlaylistPage, error)
}

// PlaylistFetcher collects every item of the liked videos playlist.
type PlaylistFetcher struct {
	Service   PlaylistService
	Logger    *logger.Logger
	PageDelay time.Duration
	// Sleep pauses between pages; nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewPlaylistFetcher creates a fetcher over svc with the default page delay.
func NewPlaylistFetcher(svc PlaylistService, log *logger.Logger) *PlaylistFetcher {
	return &PlaylistFetcher{
		Service:   svc,
		Logger:    log,
		PageDelay: DefaultPageDelay,
	}
}

// FetchAll pages through the liked videos playlist and returns its items in
// API order. A rejected page fails the whole fetch with *RemoteAPIError.
func (f *PlaylistFetcher) FetchAll(ctx context.Context) ([]*ytapi.PlaylistItem, error) {
	q := PlaylistQuery{
		PlaylistID: LikedPlaylistID,
		Part:       []string{"snippet"},
		MaxResults: PageSize,
	}

	var items []*ytapi.PlaylistItem
	total := ""
	for {
		page, err := f.Service.ListPlaylistItems(ctx, q)
		if err == nil && page == nil {
			err = errEmptyPage
		}
		if err != nil {
			return nil, &RemoteAPIError{Op: "playlistItems.list", Err: err}
		}

		// The API omits totalResults instead of sending 0 when it has no estimate.
		if total == "" {
			total = "many"
			if page.PageInfo != nil && page.PageInfo.TotalResults > 0 {
				total = strconv.FormatInt(page.PageInfo.TotalResults, 10)
			}
		}

		items = append(items, page.Items...)
		f.Logger.Logf("Getting video IDs (%d of %s)...", len(items), total)

		if err := f.sleep(ctx, f.PageDelay); err != nil {
			return nil, err
		}

		if page.NextPageToken == "" {
			return items, nil
		}
		q.PageToken = page.NextPageToken
	}
}

func (f *PlaylistFetcher) sleep(ctx context.Context, d time.Duration) error {
	if f.Sleep != nil {
		return f.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
