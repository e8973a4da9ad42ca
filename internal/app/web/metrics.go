package web

import "github.com/taskdeck/webapp/internal/platform/metrics"

type Metrics struct {
	Registry       *metrics.Registry
	Requests       *metrics.Counter
	UpstreamErrors *metrics.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: metrics.NewRegistry(),
		Requests: metrics.NewCounter(metrics.Opts{
			Name: "webapp_http_requests_total",
			Help: "HTTP requests handled by the app.",
		}),
		UpstreamErrors: metrics.NewCounter(metrics.Opts{
			Name: "webapp_upstream_errors_total",
			Help: "Task service calls that returned an error.",
		}),
	}
	m.Registry.MustRegister(m.Requests, m.UpstreamErrors)
	return m
}
