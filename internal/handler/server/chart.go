package server

import "TUI_channel_analytics/internal/core/domain"

const (
	chartWidth     = 960
	chartHeight    = 460
	chartMarginL   = 70
	chartMarginR   = 20
	chartMarginT   = 30
	chartMarginB   = 170
	chartBarGap    = 0.2
	chartLabelRune = 28
)

type chartBar struct {
	Title  string
	Label  string
	Views  uint64
	X      float64
	Y      float64
	Width  float64
	Height float64
	LabelX float64
	LabelY float64
	ValueY float64
}

type chart struct {
	Width    int
	Height   int
	Left     int
	Right    int
	Top      int
	Baseline int
	Bars     []chartBar
}

// newChart lays out a vertical bar chart (x = title, y = views). An empty
// input yields axes without bars.
func newChart(rows []domain.Row) chart {
	c := chart{
		Width:    chartWidth,
		Height:   chartHeight,
		Left:     chartMarginL,
		Right:    chartWidth - chartMarginR,
		Top:      chartMarginT,
		Baseline: chartHeight - chartMarginB,
	}
	if len(rows) == 0 {
		return c
	}

	var maxViews uint64
	for _, r := range rows {
		if r.Views > maxViews {
			maxViews = r.Views
		}
	}

	plotW := float64(c.Right - c.Left)
	plotH := float64(c.Baseline - c.Top)
	band := plotW / float64(len(rows))
	barW := band * (1 - chartBarGap)

	c.Bars = make([]chartBar, 0, len(rows))
	for i, r := range rows {
		h := 0.0
		if maxViews > 0 {
			h = float64(r.Views) / float64(maxViews) * plotH
		}
		x := float64(c.Left) + float64(i)*band + (band-barW)/2
		y := float64(c.Baseline) - h
		c.Bars = append(c.Bars, chartBar{
			Title:  r.Title,
			Label:  truncate(r.Title, chartLabelRune),
			Views:  r.Views,
			X:      x,
			Y:      y,
			Width:  barW,
			Height: h,
			LabelX: x + barW/2,
			LabelY: float64(c.Baseline) + 14,
			ValueY: y - 4,
		})
	}
	return c
}
