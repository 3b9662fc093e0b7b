package provider

import (
	"TUI_channel_analytics/internal/core/domain"
	"TUI_channel_analytics/internal/core/ports"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sosodev/duration"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type Options struct {
	APIKey string
	// Endpoint overrides the API base URL, e.g. for an httptest server.
	Endpoint string
	Timeout  time.Duration
	// RequestsPerSecond paces outbound calls. Zero or less means unlimited.
	RequestsPerSecond float64
	// Transport is the base round tripper; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

type youtubeProvider struct {
	opts    Options
	log     ports.LoggerPort
	limiter *rate.Limiter
	service *youtube.Service
	mu      sync.Mutex
}

func NewYoutubeProvider(opts Options, logger ports.LoggerPort) ports.YoutubePort {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &youtubeProvider{
		opts:    opts,
		log:     logger,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (s *youtubeProvider) getYoutubeService(ctx context.Context) (*youtube.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.service != nil {
		return s.service, nil
	}

	client := &http.Client{
		Timeout:   s.opts.Timeout,
		Transport: &transport.APIKey{Key: s.opts.APIKey, Transport: s.opts.Transport},
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(client)}
	if s.opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(s.opts.Endpoint))
	}

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		s.log.Error("error while create youtube service", err)
		return nil, fmt.Errorf("error while create youtube service: %w", err)
	}

	s.service = service
	s.log.Info("Create youtube service completed")

	return service, nil
}

// prepare returns the service once the rate limiter admits another call.
func (s *youtubeProvider) prepare(ctx context.Context) (*youtube.Service, error) {
	service, err := s.getYoutubeService(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("error while waiting for rate limiter: %w", err)
	}
	return service, nil
}

func (s *youtubeProvider) GetUploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	service, err := s.prepare(ctx)
	if err != nil {
		return "", err
	}

	response, err := service.Channels.List([]string{"contentDetails"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		s.log.Error("error while call channels.list", err)
		return "", &domain.UpstreamError{Op: "channels.list", Err: err}
	}

	if len(response.Items) == 0 {
		s.log.Warning(fmt.Sprintf("No channel found for id %s", channelID))
		return "", &domain.UpstreamError{Op: "channels.list", Err: fmt.Errorf("%w: %s", domain.ErrChannelNotFound, channelID)}
	}

	item := response.Items[0]
	if item.ContentDetails == nil || item.ContentDetails.RelatedPlaylists == nil || item.ContentDetails.RelatedPlaylists.Uploads == "" {
		return "", &domain.UpstreamError{Op: "channels.list", Err: fmt.Errorf("%w: %s", domain.ErrUploadsPlaylistMissing, channelID)}
	}

	return item.ContentDetails.RelatedPlaylists.Uploads, nil
}

// ListPlaylistVideos reads only the first page of the playlist.
func (s *youtubeProvider) ListPlaylistVideos(ctx context.Context, playlistID string, maxResults int64) ([]domain.Video, error) {
	service, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	call := service.PlaylistItems.List([]string{"snippet"}).PlaylistId(playlistID).MaxResults(maxResults)
	response, err := call.Context(ctx).Do()
	if err != nil {
		s.log.Error("error while call playlistItems.list", err)
		return nil, &domain.UpstreamError{Op: "playlistItems.list", Err: err}
	}

	videos := make([]domain.Video, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
			s.log.Warning(fmt.Sprintf("Skipping playlist item %s without video id", item.Id))
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		if err != nil {
			return nil, &domain.UpstreamError{
				Op:  "playlistItems.list",
				Err: fmt.Errorf("error while parsing publishedAt of %s: %w", item.Snippet.ResourceId.VideoId, err),
			}
		}

		videos = append(videos, domain.Video{
			ID:          item.Snippet.ResourceId.VideoId,
			Title:       item.Snippet.Title,
			PublishedAt: publishedAt,
		})
	}

	return videos, nil
}

func (s *youtubeProvider) GetVideoStats(ctx context.Context, videoIDs []string) ([]domain.VideoStats, error) {
	if len(videoIDs) == 0 {
		return []domain.VideoStats{}, nil
	}
	if len(videoIDs) > ports.MaxIDsPerRequest {
		return nil, fmt.Errorf("videos.list accepts at most %d ids, got %d", ports.MaxIDsPerRequest, len(videoIDs))
	}

	service, err := s.prepare(ctx)
	if err != nil {
		return nil, err
	}

	response, err := service.Videos.List([]string{"statistics", "contentDetails"}).Id(videoIDs...).Context(ctx).Do()
	if err != nil {
		s.log.Error("error while call videos.list", err)
		return nil, &domain.UpstreamError{Op: "videos.list", Err: err}
	}

	stats := make([]domain.VideoStats, 0, len(response.Items))
	for _, item := range response.Items {
		vs := domain.VideoStats{VideoID: item.Id}
		if item.Statistics != nil {
			vs.Views = item.Statistics.ViewCount
			vs.Likes = item.Statistics.LikeCount
			vs.Comments = item.Statistics.CommentCount
		}
		if item.ContentDetails != nil {
			vs.Duration = s.parseDuration(item.Id, item.ContentDetails.Duration)
		}
		stats = append(stats, vs)
	}

	return stats, nil
}

// parseDuration converts an ISO-8601 duration. Live or malformed values count as zero.
func (s *youtubeProvider) parseDuration(videoID, raw string) time.Duration {
	if raw == "" {
		return 0
	}
	parsed, err := duration.Parse(raw)
	if err != nil {
		s.log.Warning(fmt.Sprintf("Unparseable duration %q for video %s", raw, videoID))
		return 0
	}
	return parsed.ToTimeDuration()
}
