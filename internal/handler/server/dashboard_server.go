package server

import (
	"TUI_channel_analytics/infrastructure/logger"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

type DashboardServer interface {
	// ListenAndServe binds addr and serves the dashboard until ctx is
	// cancelled. It returns the URL the dashboard is reachable at.
	ListenAndServe(ctx context.Context, addr string) (string, error)
}

type dashboardServerImpl struct {
	source ReportSource
	logger logger.Logger
}

func NewDashboardServer(source ReportSource, logger logger.Logger) DashboardServer {
	return &dashboardServerImpl{
		source: source,
		logger: logger,
	}
}

func (s *dashboardServerImpl) ListenAndServe(ctx context.Context, addr string) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to bind dashboard server on %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:           NewDashboardHandler(s.source, s.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		s.logger.Info("Dashboard server listening on " + listener.Addr().String())
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Dashboard server stopped unexpectedly", err)
		}
		s.logger.Info("Dashboard server: Serve returned.")
	}()

	go func() {
		<-ctx.Done()
		s.logger.Info("Dashboard server: context done (" + ctx.Err().Error() + "), shutting down.")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Error shutting down dashboard server", err)
		} else {
			s.logger.Info("Dashboard server shut down.")
		}
	}()

	return dashboardURL(listener.Addr()), nil
}

func dashboardURL(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.IP.IsUnspecified() {
		port := 0
		if ok {
			port = tcp.Port
		}
		return fmt.Sprintf("http://localhost:%d/", port)
	}
	return fmt.Sprintf("http://%s/", tcp.String())
}
