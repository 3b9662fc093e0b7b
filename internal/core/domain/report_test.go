package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func videos(ids ...string) []Video {
	out := make([]Video, len(ids))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		out[i] = Video{ID: id, Title: "title " + id, PublishedAt: base.Add(time.Duration(i) * time.Hour)}
	}
	return out
}

func rowIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestMergeIsInnerJoin(t *testing.T) {
	vs := videos("A", "B", "C")
	stats := []VideoStats{
		{VideoID: "C", Views: 3},
		{VideoID: "A", Views: 1},
		{VideoID: "Z", Views: 99},
	}

	rows, dropped := Merge(vs, stats)

	assert.Equal(t, []string{"A", "C"}, rowIDs(rows))
	assert.Equal(t, 1, dropped)
}

func TestNewReportSortsByViewsDescending(t *testing.T) {
	vs := videos("A", "B", "C")
	stats := []VideoStats{
		{VideoID: "A", Views: 100},
		{VideoID: "B", Views: 50},
		{VideoID: "C", Views: 200},
	}

	r := NewReport("UC1", vs, stats, time.Now())

	assert.Equal(t, []string{"C", "A", "B"}, rowIDs(r.Rows))
	assert.Equal(t, SortByViews, r.SortKey)
	assert.True(t, r.Descending)
}

func TestSortIsStableForEqualViews(t *testing.T) {
	vs := videos("A", "B", "C", "D")
	stats := []VideoStats{
		{VideoID: "A", Views: 10},
		{VideoID: "B", Views: 20},
		{VideoID: "C", Views: 10},
		{VideoID: "D", Views: 20},
	}

	r := NewReport("UC1", vs, stats, time.Now())

	assert.Equal(t, []string{"B", "D", "A", "C"}, rowIDs(r.Rows))
	for i := 0; i+1 < len(r.Rows); i++ {
		assert.GreaterOrEqual(t, r.Rows[i].Views, r.Rows[i+1].Views)
	}
}

func TestMissingCountersStayZero(t *testing.T) {
	r := NewReport("UC1", videos("A"), []VideoStats{{VideoID: "A", Views: 5, Likes: 2}}, time.Now())

	require.Len(t, r.Rows, 1)
	assert.Equal(t, uint64(0), r.Rows[0].Comments)
}

func TestTopIsPrefixOfSortedTable(t *testing.T) {
	ids := make([]string, 25)
	stats := make([]VideoStats, 25)
	for i := range ids {
		ids[i] = fmt.Sprintf("v%02d", i)
		stats[i] = VideoStats{VideoID: ids[i], Views: uint64((i * 37) % 11)}
	}
	r := NewReport("UC1", videos(ids...), stats, time.Now())

	top := r.Top(10)
	require.Len(t, top, 10)
	assert.Equal(t, rowIDs(r.Rows[:10]), rowIDs(top))

	r.SortBy(SortByTitle, false)
	assert.Equal(t, rowIDs(top), rowIDs(r.Top(10)), "top ranking ignores table order")
}

func TestTopWithFewerRows(t *testing.T) {
	r := NewReport("UC1", videos("A", "B"), []VideoStats{{VideoID: "A"}, {VideoID: "B"}}, time.Now())
	assert.Len(t, r.Top(10), 2)
}

func TestEmptyReport(t *testing.T) {
	r := NewReport("UC1", nil, nil, time.Now())

	assert.Empty(t, r.Rows)
	assert.Empty(t, r.Top(10))
	assert.Equal(t, Totals{}, r.Totals())
}

func TestSortByOtherColumns(t *testing.T) {
	vs := videos("A", "B", "C")
	stats := []VideoStats{
		{VideoID: "A", Views: 1, Likes: 30, Comments: 1, Duration: 3 * time.Minute},
		{VideoID: "B", Views: 2, Likes: 10, Comments: 3, Duration: time.Minute},
		{VideoID: "C", Views: 3, Likes: 20, Comments: 2, Duration: 2 * time.Minute},
	}
	r := NewReport("UC1", vs, stats, time.Now())

	r.SortBy(SortByLikes, true)
	assert.Equal(t, []string{"A", "C", "B"}, rowIDs(r.Rows))

	r.SortBy(SortByComments, false)
	assert.Equal(t, []string{"A", "C", "B"}, rowIDs(r.Rows))

	r.SortBy(SortByPublished, true)
	assert.Equal(t, []string{"C", "B", "A"}, rowIDs(r.Rows))

	r.SortBy(SortByDuration, false)
	assert.Equal(t, []string{"B", "C", "A"}, rowIDs(r.Rows))

	r.SortBy(SortByTitle, false)
	assert.Equal(t, []string{"A", "B", "C"}, rowIDs(r.Rows))
}

func TestTotals(t *testing.T) {
	r := NewReport("UC1", videos("A", "B"), []VideoStats{
		{VideoID: "A", Views: 10, Likes: 2, Comments: 1},
		{VideoID: "B", Views: 5, Likes: 1},
	}, time.Now())

	assert.Equal(t, Totals{Videos: 2, Views: 15, Likes: 3, Comments: 1}, r.Totals())
}

func TestSortKeyCycle(t *testing.T) {
	k := SortByViews
	seen := map[SortKey]bool{}
	for i := 0; i < 6; i++ {
		seen[k] = true
		k = k.Next()
	}
	assert.Len(t, seen, 6)
	assert.Equal(t, SortByViews, k)
	assert.Equal(t, SortByLikes, ParseSortKey("LIKES"))
	assert.Equal(t, SortByViews, ParseSortKey("bogus"))
}

func TestUpstreamErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("list: %w", &UpstreamError{Op: "channels.list", Err: ErrChannelNotFound})

	assert.True(t, IsUpstream(err))
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestCloneIsIndependent(t *testing.T) {
	r := NewReport("UC1", videos("A", "B"), []VideoStats{{VideoID: "A", Views: 1}, {VideoID: "B", Views: 2}}, time.Now())

	c := r.Clone()
	c.SortBy(SortByViews, false)

	assert.Equal(t, []string{"B", "A"}, rowIDs(r.Rows))
	assert.Equal(t, []string{"A", "B"}, rowIDs(c.Rows))
}
