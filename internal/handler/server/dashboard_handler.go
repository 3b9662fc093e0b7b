package server

import (
	"TUI_channel_analytics/infrastructure/logger"
	"TUI_channel_analytics/internal/core/domain"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

const (
	PageTitle = "YouTube 頻道影片分析"
	TopN      = 10
)

//go:embed dashboard.html.tmpl
var dashboardTemplate string

var page = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"comma": func(n uint64) string { return humanize.Comma(int64(n)) },
	"date":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
}).Parse(dashboardTemplate))

// ReportSource exposes the report currently shown by the TUI.
type ReportSource interface {
	CurrentReport() (domain.Report, bool)
}

type ReportSourceFunc func() (domain.Report, bool)

func (f ReportSourceFunc) CurrentReport() (domain.Report, bool) { return f() }

type column struct {
	Key       string
	Label     string
	Numeric   bool
	Active    bool
	Arrow     string
	NextOrder string
}

type pageData struct {
	PageTitle string
	Report    domain.Report
	Totals    domain.Totals
	FetchedAt string
	Columns   []column
	Chart     chart
}

// NewDashboardHandler serves the HTML dashboard on / and the raw report on
// /report.json. Sorting is selected with ?sort=<column>&order=asc|desc.
func NewDashboardHandler(source ReportSource, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/report.json", func(w http.ResponseWriter, r *http.Request) {
		report, ok := source.CurrentReport()
		if !ok {
			http.Error(w, "report not ready", http.StatusServiceUnavailable)
			return
		}
		report = sortedFromQuery(report, r)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(toJSON(report)); err != nil {
			log.Error("Failed to encode report.json", err)
		}
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		report, ok := source.CurrentReport()
		if !ok {
			http.Error(w, "report not ready", http.StatusServiceUnavailable)
			return
		}
		report = sortedFromQuery(report, r)

		data := pageData{
			PageTitle: PageTitle,
			Report:    report,
			Totals:    report.Totals(),
			FetchedAt: report.FetchedAt.Format("2006-01-02 15:04:05"),
			Columns:   columns(report),
			Chart:     newChart(report.Top(TopN)),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			log.Error("Failed to render dashboard", err)
		}
	})

	return mux
}

func sortedFromQuery(report domain.Report, r *http.Request) domain.Report {
	report = report.Clone()
	q := r.URL.Query()
	if q.Get("sort") == "" {
		return report
	}
	report.SortBy(domain.ParseSortKey(q.Get("sort")), !strings.EqualFold(q.Get("order"), "asc"))
	return report
}

func columns(report domain.Report) []column {
	cols := []column{
		{Label: "video_id"},
		{Key: domain.SortByTitle.String(), Label: "影片標題"},
		{Key: domain.SortByPublished.String(), Label: "發布時間"},
		{Key: domain.SortByViews.String(), Label: "觀看數", Numeric: true},
		{Key: domain.SortByLikes.String(), Label: "按讚數", Numeric: true},
		{Key: domain.SortByComments.String(), Label: "留言數", Numeric: true},
		{Key: domain.SortByDuration.String(), Label: "長度", Numeric: true},
	}
	for i := range cols {
		cols[i].NextOrder = "desc"
		if cols[i].Key == "" || cols[i].Key != report.SortKey.String() {
			continue
		}
		cols[i].Active = true
		if report.Descending {
			cols[i].Arrow = "▼"
			cols[i].NextOrder = "asc"
		} else {
			cols[i].Arrow = "▲"
		}
	}
	return cols
}

type rowJSON struct {
	VideoID         string    `json:"video_id"`
	Title           string    `json:"title"`
	PublishedAt     time.Time `json:"published_at"`
	Views           uint64    `json:"views"`
	Likes           uint64    `json:"likes"`
	Comments        uint64    `json:"comments"`
	DurationSeconds float64   `json:"duration_seconds"`
}

type reportJSON struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	FetchedAt time.Time `json:"fetched_at"`
	SortKey   string    `json:"sort_key"`
	Order     string    `json:"order"`
	Dropped   int       `json:"dropped"`
	Rows      []rowJSON `json:"rows"`
	Top       []string  `json:"top"`
}

func toJSON(report domain.Report) reportJSON {
	out := reportJSON{
		ID:        report.ID,
		ChannelID: report.ChannelID,
		FetchedAt: report.FetchedAt,
		SortKey:   report.SortKey.String(),
		Order:     "asc",
		Dropped:   report.Dropped,
		Rows:      make([]rowJSON, 0, len(report.Rows)),
		Top:       make([]string, 0, TopN),
	}
	if report.Descending {
		out.Order = "desc"
	}
	for _, r := range report.Rows {
		out.Rows = append(out.Rows, rowJSON{
			VideoID:         r.ID,
			Title:           r.Title,
			PublishedAt:     r.PublishedAt,
			Views:           r.Views,
			Likes:           r.Likes,
			Comments:        r.Comments,
			DurationSeconds: r.Duration.Seconds(),
		})
	}
	for _, r := range report.Top(TopN) {
		out.Top = append(out.Top, r.ID)
	}
	return out
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
