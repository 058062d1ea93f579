package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskmill/taskmill/internal/api"
	promexport "github.com/taskmill/taskmill/internal/observability/prometheus"
)

// serve runs the scheduling API server until the process is signalled to
// stop. Every run the server executes reports into the same Prometheus
// collectors, exposed on /metrics.
func (a *App) serve() error {
	exporter, err := promexport.NewExporter("", nil, promexport.ExporterOptions{})
	if err != nil {
		return fmt.Errorf("failed to build metrics exporter: %w", err)
	}

	srv := api.NewServer(api.Config{
		Logger:   a.logger,
		Observer: exporter,
		Metrics:  promhttp.Handler(),
	})

	a.logger.Info("🩺 Health endpoint available.", "path", "/healthz")
	return srv.Run(a.config.ListenAddr)
}
