package tui

import (
	"TUI_channel_analytics/internal/core/domain"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

const (
	topN            = 10
	refreshCooldown = time.Minute
	minTableHeight  = 5
	// rows taken by title, summary, chart header, help and margins
	dashboardChrome = 12
)

type DashboardModel struct {
	parent *AppModel

	report      domain.Report
	table       table.Model
	lastRefresh time.Time

	statusMessage string
	dashboardURL  string

	width  int
	height int
}

func NewDashboardModel(parent *AppModel) *DashboardModel {
	t := table.New(
		table.WithColumns(tableColumns(domain.SortByViews, true, 80)),
		table.WithFocused(true),
		table.WithHeight(minTableHeight),
	)
	s := table.DefaultStyles()
	s.Header = tableHeaderStyle
	s.Selected = tableSelectedStyle
	t.SetStyles(s)

	return &DashboardModel{
		parent: parent,
		table:  t,
		width:  80,
		height: 24,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	m.statusMessage = ""
	return nil
}

// SetReport replaces the displayed data, keeping the user's current sort.
func (m *DashboardModel) SetReport(report domain.Report) {
	key, desc := report.SortKey, report.Descending
	if !m.lastRefresh.IsZero() {
		key, desc = m.report.SortKey, m.report.Descending
	}
	m.report = report.Clone()
	m.report.SortBy(key, desc)
	m.lastRefresh = time.Now()
	m.syncTable()
}

func (m *DashboardModel) Report() domain.Report {
	return m.report.Clone()
}

func (m *DashboardModel) SetDashboardURL(url string) {
	m.dashboardURL = url
}

func (m *DashboardModel) syncTable() {
	m.table.SetColumns(tableColumns(m.report.SortKey, m.report.Descending, m.width))
	m.table.SetRows(tableRows(m.report.Rows))

	chartRows := len(m.report.Top(topN))
	if chartRows == 0 {
		chartRows = 1
	}
	h := m.height - dashboardChrome - chartRows
	if h < minTableHeight {
		h = minTableHeight
	}
	m.table.SetHeight(h)
	m.table.SetWidth(m.width - 4)
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncTable()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlR:
			if m.lastRefresh.IsZero() || time.Since(m.lastRefresh) >= refreshCooldown {
				m.parent.logger.Info("DashboardModel: Ctrl+R pressed, refreshing report")
				return m, m.parent.send(refreshReportMsg{})
			}
			remaining := refreshCooldown - time.Since(m.lastRefresh)
			m.statusMessage = fmt.Sprintf("🔄 Wait %02d:%02d before refreshing again.",
				int(remaining.Minutes()), int(remaining.Seconds())%60)
			return m, nil
		}

		switch msg.String() {
		case "s":
			m.report.SortBy(m.report.SortKey.Next(), defaultDescending(m.report.SortKey.Next()))
			m.syncTable()
			m.statusMessage = "Sorted by " + m.report.SortKey.String()
			return m, nil
		case "d":
			m.report.SortBy(m.report.SortKey, !m.report.Descending)
			m.syncTable()
			return m, nil
		case "w":
			return m, m.parent.send(openWebDashboardMsg{})
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// defaultDescending puts the largest counters and newest uploads first,
// and titles alphabetically.
func defaultDescending(key domain.SortKey) bool {
	return key != domain.SortByTitle
}

func (m *DashboardModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📊 YouTube 頻道影片成效分析"))
	b.WriteString("\n")

	totals := m.report.Totals()
	summary := fmt.Sprintf("頻道 %s · %d 支影片 · 觀看 %s · 按讚 %s · 留言 %s · 更新於 %s",
		m.report.ChannelID,
		totals.Videos,
		humanize.Comma(int64(totals.Views)),
		humanize.Comma(int64(totals.Likes)),
		humanize.Comma(int64(totals.Comments)),
		m.report.FetchedAt.Format("15:04:05"),
	)
	if m.report.Dropped > 0 {
		summary += fmt.Sprintf(" · %d 支缺少統計", m.report.Dropped)
	}
	b.WriteString(summaryStyle.Render(summary))
	b.WriteString("\n\n")

	b.WriteString(tableBorderStyle.Render(m.table.View()))
	b.WriteString("\n")

	b.WriteString(sectionHeaderStyle.Render("觀看數 Top 10"))
	b.WriteString("\n")
	b.WriteString(renderBarChart(m.report.Top(topN), m.width-4))
	b.WriteString("\n\n")

	if m.statusMessage != "" {
		b.WriteString(statusMessageStyle.Render(m.statusMessage))
		b.WriteString("\n")
	}
	if m.dashboardURL != "" {
		b.WriteString("Web: ")
		b.WriteString(urlStyle.Render(m.dashboardURL))
		b.WriteString("\n")
	}

	b.WriteString(promptStyle.Render("↑/↓ scroll · s sort column · d flip order · w open in browser · Ctrl+R refresh · Ctrl+C quit"))
	return docStyle.Render(b.String())
}

func tableColumns(key domain.SortKey, desc bool, width int) []table.Column {
	arrow := "▲"
	if desc {
		arrow = "▼"
	}
	title := func(k domain.SortKey, label string) string {
		if k == key {
			return label + " " + arrow
		}
		return label
	}

	titleWidth := width - 4 - 16 - 12*3 - 10 - 12
	if titleWidth < 20 {
		titleWidth = 20
	}

	return []table.Column{
		{Title: title(domain.SortByTitle, "影片標題"), Width: titleWidth},
		{Title: title(domain.SortByPublished, "發布時間"), Width: 16},
		{Title: title(domain.SortByViews, "觀看數"), Width: 12},
		{Title: title(domain.SortByLikes, "按讚數"), Width: 12},
		{Title: title(domain.SortByComments, "留言數"), Width: 12},
		{Title: title(domain.SortByDuration, "長度"), Width: 10},
	}
}

func tableRows(rows []domain.Row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{
			r.Title,
			r.PublishedAt.Local().Format("2006-01-02 15:04"),
			humanize.Comma(int64(r.Views)),
			humanize.Comma(int64(r.Likes)),
			humanize.Comma(int64(r.Comments)),
			r.Duration.String(),
		}
	}
	return out
}
