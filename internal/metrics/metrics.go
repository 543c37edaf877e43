package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ytsaver"

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics counts downloads. It implements downloader.Recorder.
type Metrics struct {
	registry  *prometheus.Registry
	downloads *prometheus.CounterVec
	duration  prometheus.Histogram
	bytes     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Finished download attempts by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "download_duration_seconds",
			Help:      "Time spent on a download attempt.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloaded_bytes_total",
			Help:      "Bytes saved by successful downloads.",
		}),
	}
	m.registry.MustRegister(m.downloads, m.duration, m.bytes)
	return m
}

func (m *Metrics) ObserveOutcome(success bool, elapsed time.Duration) {
	label := outcomeFailure
	if success {
		label = outcomeSuccess
	}
	m.downloads.WithLabelValues(label).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) AddBytes(n int64) {
	if n > 0 {
		m.bytes.Add(float64(n))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
