package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes recorded by RecordRequest.
const (
	OutcomeSuccess     = "success"
	OutcomeClientError = "client_error"
	OutcomeServerError = "server_error"
)

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor returns a handler for a specific registry.
func HandlerFor(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// RecordServerStart sets the start time and info gauges.
func RecordServerStart(version, provider, model string) {
	ServerStartTime.Set(float64(time.Now().Unix()))
	ServerInfo.WithLabelValues(version, runtime.Version(), provider, model).Set(1)
}

// RecordRequest records a completed generation request.
func RecordRequest(outcome string, duration time.Duration) {
	RequestsTotal.WithLabelValues(outcome).Inc()
	RequestDuration.Observe(duration.Seconds())
}

// RecordUnit records one segmented unit.
func RecordUnit(kind string) {
	UnitsTotal.WithLabelValues(kind).Inc()
}

// RecordProviderRequest records a provider API request.
func RecordProviderRequest(provider string, duration time.Duration, promptTokens, usedTokens int, err error) {
	ProviderRequestsTotal.WithLabelValues(provider).Inc()
	ProviderDuration.WithLabelValues(provider).Observe(duration.Seconds())

	if promptTokens > 0 {
		ProviderTokensTotal.WithLabelValues(provider, "prompt_estimate").Add(float64(promptTokens))
	}
	if usedTokens > 0 {
		ProviderTokensTotal.WithLabelValues(provider, "used").Add(float64(usedTokens))
	}

	if err != nil {
		ProviderErrorsTotal.WithLabelValues(provider).Inc()
	}
}
