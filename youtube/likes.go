package youtube

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"ytlikes/internal/logger"
	"ytlikes/storage"
)

// Access is the permission level requested for an API client.
type Access int

const (
	// ReadOnlyAccess can list playlists.
	ReadOnlyAccess Access = iota
	// FullAccess can also rate videos.
	FullAccess
)

// ClientRequest describes the API client a synchronizer needs.
type ClientRequest struct {
	Access Access
	// Temporary credentials are obtained for this run only and never cached.
	Temporary bool
}

// Client is the part of the YouTube Data API used for likes.
type Client interface {
	PlaylistService
	RateVideo(ctx context.Context, videoID, rating string) error
}

// ClientProvider hands out authorized API clients per profile.
type ClientProvider interface {
	Client(ctx context.Context, profile string, req ClientRequest) (Client, error)
}

// SynchronizerConfig tunes request pacing.
type SynchronizerConfig struct {
	// PageDelay is the pause after each playlist page.
	PageDelay time.Duration
	// RatingInterval is the minimum spacing between rating calls (0 = unlimited).
	RatingInterval time.Duration
	// Sleep replaces the page delay timer; used by tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultSynchronizerConfig returns the default pacing.
func DefaultSynchronizerConfig() SynchronizerConfig {
	return SynchronizerConfig{
		PageDelay:      DefaultPageDelay,
		RatingInterval: 200 * time.Millisecond,
	}
}

// Synchronizer copies likes between YouTube and a profile's likes file.
type Synchronizer struct {
	provider ClientProvider
	layout   storage.Layout
	log      *logger.Logger
	config   SynchronizerConfig
	limiter  *rate.Limiter
}

// NewSynchronizer creates a synchronizer for the profiles under layout.
func NewSynchronizer(provider ClientProvider, layout storage.Layout, log *logger.Logger, cfg SynchronizerConfig) *Synchronizer {
	limit := rate.Inf
	if cfg.RatingInterval > 0 {
		limit = rate.Every(cfg.RatingInterval)
	}
	return &Synchronizer{
		provider: provider,
		layout:   layout,
		log:      log,
		config:   cfg,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// ImportResult summarizes an import.
type ImportResult struct {
	Videos   int
	Included bool
}

// ExportResult summarizes an export.
type ExportResult struct {
	// Rated counts videos liked by this export.
	Rated int
	// Skipped counts videos that were already liked.
	Skipped int
	// Unavailable counts videos that could not be rated.
	Unavailable int
}

func (s *Synchronizer) fetcher(client Client) *PlaylistFetcher {
	f := NewPlaylistFetcher(client, s.log)
	f.PageDelay = s.config.PageDelay
	f.Sleep = s.config.Sleep
	return f
}

// ImportLikes overwrites the profile's likes file with its liked videos,
// followed by the raw content of the include file when one exists.
func (s *Synchronizer) ImportLikes(ctx context.Context, profile string) (*ImportResult, error) {
	client, err := s.provider.Client(ctx, profile, ClientRequest{Access: ReadOnlyAccess})
	if err != nil {
		return nil, err
	}

	items, err := s.fetcher(client).FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Videos: len(items)}
	data := FormatVideos(items)

	include, err := os.ReadFile(s.layout.IncludeLikesFile(profile))
	switch {
	case err == nil:
		data += "\n\n" + string(include)
		result.Included = true
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read include file: %w", err)
	}

	if err := storage.WriteFileAtomic(s.layout.LikesFile(profile), []byte(data)); err != nil {
		return nil, err
	}
	return result, nil
}

// ExportLikes likes every video of the profile's likes file that is not
// liked yet. The file is processed bottom-up. Videos that cannot be rated are
// reported and skipped; any other rejection stops the export and is returned
// unchanged.
func (s *Synchronizer) ExportLikes(ctx context.Context, profile string) (*ExportResult, error) {
	client, err := s.provider.Client(ctx, profile, ClientRequest{Access: FullAccess, Temporary: true})
	if err != nil {
		return nil, err
	}

	items, err := s.fetcher(client).FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(items))
	for _, item := range items {
		existing[ItemVideoID(item)] = true
	}

	likesFile := s.layout.LikesFile(profile)
	data, err := os.ReadFile(likesFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PreconditionError{Path: likesFile}
		}
		return nil, fmt.Errorf("read likes file: %w", err)
	}

	ids := ParseVideos(string(data))
	slices.Reverse(ids)

	result := &ExportResult{}
	for _, id := range ids {
		s.log.Log(id)

		if existing[id] {
			result.Skipped++
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return result, err
		}

		err := client.RateVideo(ctx, id, "like")
		if err == nil {
			result.Rated++
			continue
		}

		outcome := ClassifyRatingError(err)
		switch outcome.Kind {
		case RatingIgnored:
			result.Rated++
		case RatingRecoverable:
			s.log.Warn((&RecoverableRatingError{VideoID: id, Reason: outcome.Reason}).Error())
			result.Unavailable++
		default:
			return result, err
		}
	}

	return result, nil
}
