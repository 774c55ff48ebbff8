package external

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"storyforge/sources/configuration"
	"storyforge/sources/platform"
	"storyforge/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outsiders serves /health, /metrics and /metrics/system for the lifetime of the process.
// A zero metrics port leaves it disabled.
type Outsiders struct {
	log    *tracing.Logger
	port   int
	server *http.Server
}

func NewOutsiders(log *tracing.Logger, config *configuration.Config) *Outsiders {
	x := &Outsiders{
		log:  log,
		port: config.Service.MetricsPort,
	}

	x.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", x.port),
		Handler:           x.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return x
}

func (x *Outsiders) Enabled() bool {
	return x.port > 0
}

func (x *Outsiders) Handler() http.Handler {
	systemRegistry := prometheus.NewRegistry()
	systemRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)

	return platform.Curry(http.NewServeMux, func(m *http.ServeMux) {
		m.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			healthhandler(x.log, w, r)
		})
		m.Handle("/metrics", promhttp.Handler())
		m.Handle("/metrics/system", promhttp.HandlerFor(systemRegistry, promhttp.HandlerOpts{}))
	})
}

func (x *Outsiders) start() error {
	listener, err := net.Listen("tcp", x.server.Addr)
	if err != nil {
		x.log.E("Failed to bind outsiders server", tracing.OutsiderKind, "metrics", tracing.InnerError, err)
		return err
	}

	x.log.I("Outsiders server is starting", tracing.OutsiderKind, "metrics", "port", x.port)
	go func() {
		if err := x.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			x.log.E("Outsiders server stopped", tracing.OutsiderKind, "metrics", tracing.InnerError, err)
		}
	}()
	return nil
}

func healthhandler(log *tracing.Logger, w http.ResponseWriter, r *http.Request) {
	log.D("Outsider service got a ping", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "storyforge",
		"version": platform.GetAppVersion(),
		"build":   platform.GetAppBuildTime(),
		"uptime":  platform.GetAppUptime().Truncate(time.Second).String(),
	})
}
