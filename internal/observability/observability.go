// Package observability exposes Prometheus metrics and a small local
// status server.
//
// The server is loopback-scale convenience for a single device — check the
// appliance is alive, scrape its counters, browse the interaction history —
// not a networked control surface.
package observability

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crypticsy/VisionCaster/internal/history"
)

// Metrics holds the appliance's Prometheus instruments.
type Metrics struct {
	Interactions     prometheus.Counter
	LongPresses      prometheus.Counter
	CaptionFallbacks prometheus.Counter
	PipelineSeconds  prometheus.Histogram
}

// NewMetrics creates and registers the instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Interactions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "visioncaster_interactions_total",
			Help: "Completed capture pipelines.",
		}),
		LongPresses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "visioncaster_long_presses_total",
			Help: "Presses discarded as long holds.",
		}),
		CaptionFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "visioncaster_caption_fallbacks_total",
			Help: "Interactions logged with the fallback caption.",
		}),
		PipelineSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "visioncaster_pipeline_duration_seconds",
			Help:    "Capture-to-speech pipeline duration.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
		}),
	}
	reg.MustRegister(m.Interactions, m.LongPresses, m.CaptionFallbacks, m.PipelineSeconds)
	return m
}

// Server is the local status HTTP server.
type Server struct {
	port  int
	store *history.Store
	ready atomic.Bool
	e     *echo.Echo
}

// NewServer builds the status server over the given history store.
func NewServer(port int, store *history.Store) *Server {
	s := &Server{port: port, store: store}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	statusHandler := func(c echo.Context) error {
		if !s.ready.Load() {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
	e.GET("/healthz", statusHandler)
	e.GET("/readyz", statusHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/api/history", s.handleHistory)

	s.e = e
	return s
}

// SetReady marks the appliance as initialized and polling.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Handler exposes the routes for tests.
func (s *Server) Handler() http.Handler { return s.e }

func (s *Server) handleHistory(c echo.Context) error {
	records, err := s.store.Load()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, records)
}

// ListenAndServe starts the status server and blocks until the context is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.e.Shutdown(shutdownCtx)
	}()

	if err := s.e.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("status server: %w", err)
	}
	return nil
}
