package domain

import (
	"sort"
	"strings"
	"time"
)

type SortKey int

const (
	SortByViews SortKey = iota
	SortByLikes
	SortByComments
	SortByPublished
	SortByTitle
	SortByDuration
)

var sortKeyNames = map[SortKey]string{
	SortByViews:     "views",
	SortByLikes:     "likes",
	SortByComments:  "comments",
	SortByPublished: "published_at",
	SortByTitle:     "title",
	SortByDuration:  "duration",
}

func (k SortKey) String() string {
	if name, ok := sortKeyNames[k]; ok {
		return name
	}
	return "unknown"
}

// Next cycles through the sortable columns in display order.
func (k SortKey) Next() SortKey {
	return (k + 1) % SortKey(len(sortKeyNames))
}

// ParseSortKey maps a column name back to its key. Unknown names fall back to views.
func ParseSortKey(name string) SortKey {
	for k, n := range sortKeyNames {
		if strings.EqualFold(n, name) {
			return k
		}
	}
	return SortByViews
}

type Report struct {
	// ID identifies one build of the report.
	ID         string
	ChannelID  string
	Rows       []Row
	Dropped    int
	FetchedAt  time.Time
	SortKey    SortKey
	Descending bool

	// ranked keeps the views-descending order computed at construction.
	ranked []Row
}

type Totals struct {
	Videos   int
	Views    uint64
	Likes    uint64
	Comments uint64
}

// Merge inner-joins videos with stats on video id, preserving listing order.
// It returns the joined rows and the number of listed videos without stats.
func Merge(videos []Video, stats []VideoStats) ([]Row, int) {
	byID := make(map[string]VideoStats, len(stats))
	for _, s := range stats {
		byID[s.VideoID] = s
	}

	rows := make([]Row, 0, len(videos))
	dropped := 0
	for _, v := range videos {
		s, ok := byID[v.ID]
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, Row{
			Video:    v,
			Views:    s.Views,
			Likes:    s.Likes,
			Comments: s.Comments,
			Duration: s.Duration,
		})
	}
	return rows, dropped
}

// NewReport joins the inputs and sorts the result descending by views.
func NewReport(channelID string, videos []Video, stats []VideoStats, fetchedAt time.Time) Report {
	rows, dropped := Merge(videos, stats)
	r := Report{
		ChannelID: channelID,
		Rows:      rows,
		Dropped:   dropped,
		FetchedAt: fetchedAt,
	}
	r.SortBy(SortByViews, true)
	r.ranked = make([]Row, len(r.Rows))
	copy(r.ranked, r.Rows)
	return r
}

// SortBy reorders the rows in place. The sort is stable, so rows with equal
// keys keep their previous relative order.
func (r *Report) SortBy(key SortKey, descending bool) {
	r.SortKey = key
	r.Descending = descending

	less := lessFunc(key)
	sort.SliceStable(r.Rows, func(i, j int) bool {
		if descending {
			return less(r.Rows[j], r.Rows[i])
		}
		return less(r.Rows[i], r.Rows[j])
	})
}

func lessFunc(key SortKey) func(a, b Row) bool {
	switch key {
	case SortByLikes:
		return func(a, b Row) bool { return a.Likes < b.Likes }
	case SortByComments:
		return func(a, b Row) bool { return a.Comments < b.Comments }
	case SortByPublished:
		return func(a, b Row) bool { return a.PublishedAt.Before(b.PublishedAt) }
	case SortByTitle:
		return func(a, b Row) bool { return a.Title < b.Title }
	case SortByDuration:
		return func(a, b Row) bool { return a.Duration < b.Duration }
	default:
		return func(a, b Row) bool { return a.Views < b.Views }
	}
}

// Top returns the n most viewed rows regardless of the current table order.
// The result never aliases r.Rows.
func (r Report) Top(n int) []Row {
	var ranked []Row
	if len(r.ranked) == len(r.Rows) && r.ranked != nil {
		ranked = make([]Row, len(r.ranked))
		copy(ranked, r.ranked)
	} else {
		ranked = make([]Row, len(r.Rows))
		copy(ranked, r.Rows)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Views > ranked[j].Views
		})
	}
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

func (r Report) Totals() Totals {
	t := Totals{Videos: len(r.Rows)}
	for _, row := range r.Rows {
		t.Views += row.Views
		t.Likes += row.Likes
		t.Comments += row.Comments
	}
	return t
}

// Clone returns a copy whose rows can be re-sorted without affecting r.
func (r Report) Clone() Report {
	out := r
	out.Rows = make([]Row, len(r.Rows))
	copy(out.Rows, r.Rows)
	if r.ranked != nil {
		out.ranked = make([]Row, len(r.ranked))
		copy(out.ranked, r.ranked)
	}
	return out
}
