package usecases

import (
	"TUI_channel_analytics/internal/core/domain"
	"TUI_channel_analytics/internal/core/ports"
	"context"
	"fmt"
)

// chunk splits ids into consecutive groups of at most size elements.
func chunk(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// FetchStats requests statistics one chunk at a time and concatenates the
// results in request order.
func (uc *analyticsUseCase) FetchStats(ctx context.Context, videoIDs []string) ([]domain.VideoStats, error) {
	stats := make([]domain.VideoStats, 0, len(videoIDs))

	for i, ids := range chunk(videoIDs, ports.MaxIDsPerRequest) {
		batch, err := uc.service.GetVideoStats(ctx, ids)
		if err != nil {
			uc.log.Error(fmt.Sprintf("Failed to fetch stats batch %d", i), err)
			return nil, fmt.Errorf("error while fetching stats batch %d: %w", i, err)
		}
		stats = append(stats, batch...)
	}

	uc.log.Info(fmt.Sprintf("Fetched stats for %d of %d videos", len(stats), len(videoIDs)))
	return stats, nil
}
