package ports

import (
	"TUI_channel_analytics/internal/core/domain"
	"context"
)

// MaxIDsPerRequest is the YouTube Data API limit for ids in one videos.list call.
const MaxIDsPerRequest = 50

type YoutubePort interface {
	GetUploadsPlaylistID(ctx context.Context, channelID string) (string, error)
	ListPlaylistVideos(ctx context.Context, playlistID string, maxResults int64) ([]domain.Video, error)
	// GetVideoStats fetches one batch of at most MaxIDsPerRequest ids.
	GetVideoStats(ctx context.Context, videoIDs []string) ([]domain.VideoStats, error)
}
