package usecases

import (
	"TUI_channel_analytics/internal/core/domain"
	"TUI_channel_analytics/internal/core/ports"
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxResults is how many of the newest uploads are listed when the
// caller does not ask for a specific amount.
const DefaultMaxResults int64 = 50

type analyticsUseCase struct {
	service ports.YoutubePort
	cache   ports.VideoCachePort
	log     ports.LoggerPort
	now     func() time.Time
	newID   func() string
}

type AnalyticsUseCase interface {
	ListVideos(ctx context.Context, channelID string, maxResults int64) ([]domain.Video, error)
	FetchStats(ctx context.Context, videoIDs []string) ([]domain.VideoStats, error)
	BuildReport(ctx context.Context, channelID string, maxResults int64) (domain.Report, error)
	Refresh(ctx context.Context, channelID string, maxResults int64) (domain.Report, error)
}

// NewAnalyticsUseCase wires the pipeline. cache may be nil, in which case
// every ListVideos call reaches the API.
func NewAnalyticsUseCase(service ports.YoutubePort, cache ports.VideoCachePort, logger ports.LoggerPort) AnalyticsUseCase {
	return &analyticsUseCase{
		service: service,
		cache:   cache,
		log:     logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}
