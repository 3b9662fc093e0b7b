package tui

import (
	"TUI_channel_analytics/infrastructure/logger"
	"TUI_channel_analytics/internal/core/domain"
	"TUI_channel_analytics/internal/core/usecases"
	"TUI_channel_analytics/internal/handler/server"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
)

type currentView int

const (
	viewLoading currentView = iota
	viewDashboard
	viewError
)

type Options struct {
	ChannelID     string
	MaxResults    int64
	DashboardAddr string
}

type AppModel struct {
	analyticsUseCase usecases.AnalyticsUseCase
	dashboardServer  server.DashboardServer
	logger           logger.Logger
	opts             Options
	openURL          func(string) error

	spinner        spinner.Model
	dashboardModel *DashboardModel

	currentView currentView
	err         error
	webStarting bool

	// guarded by mu; read by the web dashboard goroutines
	mu        sync.RWMutex
	report    domain.Report
	hasReport bool
	webURL    string

	appContext context.Context
	cancelApp  context.CancelFunc
}

func NewAppModel(
	analyticsUC usecases.AnalyticsUseCase,
	newServer func(server.ReportSource) server.DashboardServer,
	log logger.Logger,
	opts Options,
) *AppModel {
	appCtx, cancel := context.WithCancel(context.Background())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusMessageStyle

	m := &AppModel{
		analyticsUseCase: analyticsUC,
		logger:           log,
		opts:             opts,
		openURL:          browser.OpenURL,
		spinner:          sp,
		appContext:       appCtx,
		cancelApp:        cancel,
		currentView:      viewLoading,
	}
	m.dashboardServer = newServer(m)
	m.dashboardModel = NewDashboardModel(m)
	return m
}

type reportLoadedMsg struct{ report domain.Report }
type reportErrorMsg struct{ err error }
type refreshReportMsg struct{}
type openWebDashboardMsg struct{}
type webDashboardReadyMsg struct{ url string }
type webDashboardErrorMsg struct{ err error }

func (m *AppModel) send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// CurrentReport implements server.ReportSource.
func (m *AppModel) CurrentReport() (domain.Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.report.Clone(), m.hasReport
}

func (m *AppModel) setReport(r domain.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.report = r.Clone()
	m.hasReport = true
}

func (m *AppModel) Init() tea.Cmd {
	m.logger.Info("AppModel: Init, loading report")
	return tea.Batch(m.spinner.Tick, m.loadReportCmd(false))
}

func (m *AppModel) loadReportCmd(refresh bool) tea.Cmd {
	ctx := m.appContext
	uc := m.analyticsUseCase
	opts := m.opts
	return func() tea.Msg {
		var (
			report domain.Report
			err    error
		)
		if refresh {
			report, err = uc.Refresh(ctx, opts.ChannelID, opts.MaxResults)
		} else {
			report, err = uc.BuildReport(ctx, opts.ChannelID, opts.MaxResults)
		}
		if err != nil {
			return reportErrorMsg{err: err}
		}
		return reportLoadedMsg{report: report}
	}
}

func (m *AppModel) openWebDashboardCmd() tea.Cmd {
	m.mu.RLock()
	url := m.webURL
	m.mu.RUnlock()

	return func() tea.Msg {
		if url == "" {
			started, err := m.dashboardServer.ListenAndServe(m.appContext, m.opts.DashboardAddr)
			if err != nil {
				return webDashboardErrorMsg{err: err}
			}
			url = started
		}
		if err := m.openURL(url); err != nil {
			m.logger.Error("Could not open the browser", err)
		}
		return webDashboardReadyMsg{url: url}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.logger.Info("Ctrl+C or Esc pressed, quitting.")
			m.cancelApp()
			return m, tea.Quit
		case tea.KeyCtrlR:
			if m.currentView == viewError {
				return m, m.send(refreshReportMsg{})
			}
		}

	case tea.WindowSizeMsg:
		updated, _ := m.dashboardModel.Update(msg)
		if casted, ok := updated.(*DashboardModel); ok {
			m.dashboardModel = casted
		}
		return m, nil

	case spinner.TickMsg:
		if m.currentView != viewLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case reportLoadedMsg:
		m.logger.Info(fmt.Sprintf("Report loaded: %d rows, %d dropped", len(msg.report.Rows), msg.report.Dropped))
		m.setReport(msg.report)
		m.dashboardModel.SetReport(msg.report)
		m.currentView = viewDashboard
		m.err = nil
		return m, m.dashboardModel.Init()

	case reportErrorMsg:
		m.logger.Error("Failed to build report", msg.err)
		m.currentView = viewError
		m.err = msg.err
		return m, nil

	case refreshReportMsg:
		m.currentView = viewLoading
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.loadReportCmd(true))

	case openWebDashboardMsg:
		if m.webStarting {
			return m, nil
		}
		m.webStarting = true
		return m, m.openWebDashboardCmd()

	case webDashboardReadyMsg:
		m.webStarting = false
		m.mu.Lock()
		m.webURL = msg.url
		m.mu.Unlock()
		m.dashboardModel.SetDashboardURL(msg.url)
		return m, nil

	case webDashboardErrorMsg:
		m.webStarting = false
		m.logger.Error("Failed to start web dashboard", msg.err)
		m.dashboardModel.statusMessage = fmt.Sprintf("Web dashboard unavailable: %v", msg.err)
		return m, nil
	}

	if m.currentView == viewDashboard {
		updated, cmd := m.dashboardModel.Update(msg)
		if casted, ok := updated.(*DashboardModel); ok {
			m.dashboardModel = casted
		}
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) View() string {
	switch m.currentView {
	case viewLoading:
		return docStyle.Render(fmt.Sprintf("%s Loading videos for channel %s…\n\n%s",
			m.spinner.View(), m.opts.ChannelID, promptStyle.Render("(Ctrl+C or Esc to quit)")))
	case viewDashboard:
		return m.dashboardModel.View()
	case viewError:
		return m.errorView()
	default:
		return "Unknown view…"
	}
}

func (m *AppModel) errorView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("YouTube 頻道影片分析"))
	b.WriteString("\n")

	headline := "Failed to load the report"
	if domain.IsUpstream(m.err) {
		headline = "The YouTube API returned an error"
	}
	b.WriteString(errorMessageStyle.Render(fmt.Sprintf("%s: %v", headline, m.err)))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("Ctrl+R to retry · Ctrl+C to quit"))
	return docStyle.Render(b.String())
}
