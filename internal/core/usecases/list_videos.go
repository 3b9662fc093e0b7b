package usecases

import (
	"TUI_channel_analytics/internal/core/domain"
	"context"
	"fmt"
)

func normalizeMaxResults(maxResults int64) int64 {
	if maxResults <= 0 {
		return DefaultMaxResults
	}
	if maxResults > DefaultMaxResults {
		return DefaultMaxResults
	}
	return maxResults
}

func (uc *analyticsUseCase) ListVideos(ctx context.Context, channelID string, maxResults int64) ([]domain.Video, error) {
	if channelID == "" {
		return nil, &domain.ConfigError{Key: "channel_id"}
	}
	maxResults = normalizeMaxResults(maxResults)

	if uc.cache != nil {
		if videos, ok := uc.cache.Get(ctx, channelID, maxResults); ok {
			uc.log.Debug(fmt.Sprintf("Video list cache hit for %s (%d)", channelID, maxResults))
			return videos, nil
		}
	}

	uc.log.Info(fmt.Sprintf("Listing videos for channel %s", channelID))

	uploadsID, err := uc.service.GetUploadsPlaylistID(ctx, channelID)
	if err != nil {
		uc.log.Error("Failed to resolve uploads playlist", err)
		return nil, fmt.Errorf("error while resolving uploads playlist: %w", err)
	}

	videos, err := uc.service.ListPlaylistVideos(ctx, uploadsID, maxResults)
	if err != nil {
		uc.log.Error("Failed to list uploads", err)
		return nil, fmt.Errorf("error while listing uploads: %w", err)
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, channelID, maxResults, videos)
	}

	uc.log.Info(fmt.Sprintf("Listed %d videos from playlist %s", len(videos), uploadsID))
	return videos, nil
}
