// Package metrics instruments playlist and playback operations with
// Prometheus collectors. A nil *Recorder is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "muselist"

// Operation statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

type Recorder struct {
	Operations      *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	Playlists       prometheus.Gauge
	Tracks          prometheus.Gauge
	SourcesReleased prometheus.Counter
}

// New creates a Recorder with its collectors registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of playlist and playback operations",
			},
			[]string{"operation", "status"},
		),
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of user notifications emitted",
			},
			[]string{"kind"},
		),
		Playlists: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "playlists",
				Help:      "Number of playlists",
			},
		),
		Tracks: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tracks",
				Help:      "Number of tracks across all playlists",
			},
		),
		SourcesReleased: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sources_released_total",
				Help:      "Total number of source handles released",
			},
		),
	}
}

// Operation records the outcome of a single operation.
func (r *Recorder) Operation(op string, err error) {
	if r == nil {
		return
	}

	status := StatusOK
	if err != nil {
		status = StatusError
	}

	r.Operations.WithLabelValues(op, status).Inc()
}

func (r *Recorder) Notification(kind string) {
	if r == nil {
		return
	}
	r.Notifications.WithLabelValues(kind).Inc()
}

// SetCounts sets the playlist and track gauges.
func (r *Recorder) SetCounts(playlists, tracks int) {
	if r == nil {
		return
	}
	r.Playlists.Set(float64(playlists))
	r.Tracks.Set(float64(tracks))
}

func (r *Recorder) SourceReleased() {
	if r == nil {
		return
	}
	r.SourcesReleased.Inc()
}
