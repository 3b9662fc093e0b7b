package ports

import (
	"TUI_channel_analytics/internal/core/domain"
	"context"
)

type VideoCachePort interface {
	Get(ctx context.Context, channelID string, maxResults int64) ([]domain.Video, bool)
	Set(ctx context.Context, channelID string, maxResults int64, videos []domain.Video)
	Invalidate(ctx context.Context, channelID string, maxResults int64)
	Purge(ctx context.Context)
}
