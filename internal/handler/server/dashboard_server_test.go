package server

import (
	"TUI_channel_analytics/infrastructure/logger"
	"TUI_channel_analytics/internal/core/domain"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(n int) domain.Report {
	videos := make([]domain.Video, n)
	stats := make([]domain.VideoStats, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("v%02d", i)
		videos[i] = domain.Video{ID: id, Title: "影片 " + id, PublishedAt: time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)}
		stats[i] = domain.VideoStats{VideoID: id, Views: uint64(1000 + i*100), Likes: uint64(i), Comments: uint64(n - i)}
	}
	return domain.NewReport("UC1", videos, stats, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func staticSource(r domain.Report) ReportSource {
	return ReportSourceFunc(func() (domain.Report, bool) { return r, true })
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboardPage(t *testing.T) {
	h := NewDashboardHandler(staticSource(sampleReport(12)), logger.Nop())

	rec := get(t, h, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>YouTube 頻道影片分析</title>")
	assert.Contains(t, body, "rotate(-45)")
	assert.Equal(t, 10, strings.Count(body, `<rect class="bar"`))
	assert.Equal(t, 12+1, strings.Count(body, "<tr>"), "header plus one row per video")
	assert.Contains(t, body, "2,100")
}

func TestDashboardPageEmptyReport(t *testing.T) {
	h := NewDashboardHandler(staticSource(domain.NewReport("UC1", nil, nil, time.Now())), logger.Nop())

	rec := get(t, h, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `<rect class="bar"`)
	assert.Contains(t, rec.Body.String(), "沒有資料")
}

func TestDashboardNotReady(t *testing.T) {
	h := NewDashboardHandler(ReportSourceFunc(func() (domain.Report, bool) { return domain.Report{}, false }), logger.Nop())

	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/report.json").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/favicon.ico").Code)
}

func TestReportJSONSortsFromQuery(t *testing.T) {
	report := sampleReport(3)
	h := NewDashboardHandler(staticSource(report), logger.Nop())

	rec := get(t, h, "/report.json?sort=comments&order=desc")
	require.Equal(t, http.StatusOK, rec.Code)

	var got reportJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "comments", got.SortKey)
	assert.Equal(t, "desc", got.Order)
	require.Len(t, got.Rows, 3)
	assert.Equal(t, []string{"v00", "v01", "v02"}, []string{got.Rows[0].VideoID, got.Rows[1].VideoID, got.Rows[2].VideoID})
	assert.Equal(t, []string{"v02", "v01", "v00"}, got.Top)

	assert.Equal(t, "v02", report.Rows[0].ID, "source report is not mutated")
}

func TestChartLayout(t *testing.T) {
	rows := sampleReport(4).Top(TopN)
	c := newChart(rows)

	require.Len(t, c.Bars, 4)
	assert.InDelta(t, float64(c.Baseline-c.Top), c.Bars[0].Height, 0.001, "tallest bar fills the plot")
	for i := 1; i < len(c.Bars); i++ {
		assert.LessOrEqual(t, c.Bars[i].Height, c.Bars[i-1].Height)
		assert.Greater(t, c.Bars[i].X, c.Bars[i-1].X)
	}
	assert.Empty(t, newChart(nil).Bars)
	assert.Len(t, newChart([]domain.Row{{}}).Bars, 1, "zero views does not divide by zero")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "短標題", truncate("短標題", 5))
	assert.Equal(t, "一二三四…", truncate("一二三四五六", 5))
}

func TestListenAndServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewDashboardServer(staticSource(sampleReport(2)), logger.Nop())
	url, err := srv.ListenAndServe(ctx, "127.0.0.1:0")
	require.NoError(t, err)

	resp, err := http.Get(url + "report.json")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"channel_id":"UC1"`)

	cancel()
	assert.Eventually(t, func() bool {
		_, err := http.Get(url)
		return err != nil
	}, 2*time.Second, 20*time.Millisecond)
}
