package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the directory service
type Metrics struct {
	SubmissionsTotal *prometheus.CounterVec
	UploadsTotal     *prometheus.CounterVec
	GalleryFetches   *prometheus.CounterVec
	GalleryListed    prometheus.Gauge
}

// New creates the collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SubmissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizdirectory",
			Subsystem: "listing",
			Name:      "submissions_total",
			Help:      "Listing submission attempts by terminal state.",
		}, []string{"state"}), // state: blocked, succeeded, failed
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizdirectory",
			Subsystem: "listing",
			Name:      "uploads_total",
			Help:      "Image uploads by purpose and result.",
		}, []string{"purpose", "result"}),
		GalleryFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizdirectory",
			Subsystem: "gallery",
			Name:      "fetches_total",
			Help:      "Public business list fetches by result.",
		}, []string{"result"}),
		GalleryListed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bizdirectory",
			Subsystem: "gallery",
			Name:      "businesses_listed",
			Help:      "Number of businesses returned by the last successful fetch.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.SubmissionsTotal, m.UploadsTotal, m.GalleryFetches, m.GalleryListed)
	}

	return m
}

// NewNop returns collectors that are not registered anywhere
func NewNop() *Metrics {
	return New(nil)
}
