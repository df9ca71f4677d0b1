package factory

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openshift-assisted/ccx-deadletter/internal/config"
)

const (
	metricsPath = "/metrics"
	healthPath  = "/healthz"
)

// CreatePrometheusServer serves the registry and a liveness probe on the metrics port.
func CreatePrometheusServer(conf config.Metrics, gatherer prometheus.Gatherer, registerer prometheus.Registerer) *http.Server {
	router := http.NewServeMux()

	handler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		Registry:          registerer,
		ErrorHandling:     promhttp.ContinueOnError,
		EnableOpenMetrics: true,
	})
	router.Handle(metricsPath, promhttp.InstrumentMetricHandler(registerer, handler))

	router.HandleFunc(healthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ret := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       5 * time.Second,
	}

	return ret
}
