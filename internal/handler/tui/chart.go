package tui

import (
	"TUI_channel_analytics/internal/core/domain"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

const (
	chartLabelWidth = 32
	chartMinBar     = 10
)

// renderBarChart draws one horizontal bar per row, scaled to the largest
// view count. Titles sit on the left so CJK text stays legible.
func renderBarChart(rows []domain.Row, width int) string {
	if len(rows) == 0 {
		return promptStyle.Render("沒有資料")
	}

	var maxViews uint64
	valueWidth := 0
	for _, r := range rows {
		if r.Views > maxViews {
			maxViews = r.Views
		}
		if w := len(humanize.Comma(int64(r.Views))); w > valueWidth {
			valueWidth = w
		}
	}

	barWidth := width - chartLabelWidth - valueWidth - 3
	if barWidth < chartMinBar {
		barWidth = chartMinBar
	}

	var b strings.Builder
	for i, r := range rows {
		label := runewidth.FillRight(runewidth.Truncate(r.Title, chartLabelWidth, "…"), chartLabelWidth)

		n := 0
		if maxViews > 0 {
			n = int(float64(r.Views) / float64(maxViews) * float64(barWidth))
		}
		if n == 0 && r.Views > 0 {
			n = 1
		}

		b.WriteString(label)
		b.WriteString(" │")
		b.WriteString(barStyle.Render(strings.Repeat("█", n)))
		b.WriteString(" ")
		b.WriteString(barValueStyle.Render(humanize.Comma(int64(r.Views))))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
