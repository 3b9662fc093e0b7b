package usecases

import (
	"TUI_channel_analytics/internal/core/domain"
	"context"
	"fmt"
)

func (uc *analyticsUseCase) BuildReport(ctx context.Context, channelID string, maxResults int64) (domain.Report, error) {
	uc.log.Info("Init Build Report")

	videos, err := uc.ListVideos(ctx, channelID, maxResults)
	if err != nil {
		return domain.Report{}, err
	}

	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}

	stats, err := uc.FetchStats(ctx, ids)
	if err != nil {
		return domain.Report{}, err
	}

	report := domain.NewReport(channelID, videos, stats, uc.now())
	report.ID = uc.newID()
	if report.Dropped > 0 {
		uc.log.Warning(fmt.Sprintf("%d listed videos had no statistics and were left out", report.Dropped))
	}

	uc.log.Info(fmt.Sprintf("Build Report Completed: id=%s rows=%d", report.ID, len(report.Rows)))
	return report, nil
}

// Refresh drops the cached listing before rebuilding the report.
func (uc *analyticsUseCase) Refresh(ctx context.Context, channelID string, maxResults int64) (domain.Report, error) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx, channelID, normalizeMaxResults(maxResults))
	}
	return uc.BuildReport(ctx, channelID, maxResults)
}
