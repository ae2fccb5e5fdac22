package yellowplate

import (
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swdee/go-yellowplate/tracker"
	"net/http"
)

// Metrics holds the Prometheus collectors for a plate reading session.  A nil
// *Metrics records nothing.
type Metrics struct {
	FramesProcessed  prometheus.Counter
	CandidatesFound  prometheus.Counter
	PlatesRecognized prometheus.Counter
	OCRRejected      prometheus.Counter
	CaptureFailures  prometheus.Counter
	SaveFailures     prometheus.Counter
	FrameDuration    prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them with a new registry
func NewMetrics() *Metrics {

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FramesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yellowplate_frames_processed_total",
			Help: "Total frames run through the detection pipeline",
		}),
		CandidatesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yellowplate_candidates_total",
			Help: "Total plate shaped regions found",
		}),
		PlatesRecognized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yellowplate_plates_recognized_total",
			Help: "Total plate codes recognized",
		}),
		OCRRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yellowplate_ocr_rejected_total",
			Help: "Total candidates whose OCR text was not a valid plate code",
		}),
		CaptureFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yellowplate_capture_failures_total",
			Help: "Total camera read failures",
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "yellowplate_save_failures_total",
			Help: "Total plate images that could not be saved",
		}),
		FrameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "yellowplate_frame_duration_seconds",
			Help:    "Time taken to process and present a frame",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
	}

	m.registry.MustRegister(
		m.FramesProcessed,
		m.CandidatesFound,
		m.PlatesRecognized,
		m.OCRRejected,
		m.CaptureFailures,
		m.SaveFailures,
		m.FrameDuration,
	)

	return m
}

// WatchDisplay registers a gauge reporting whether the display is showing a
// plate.  Watching another display replaces the previous gauge, so the gauge
// follows the most recently attached detector.
func (m *Metrics) WatchDisplay(d *tracker.Display) error {

	if m == nil {
		return nil
	}

	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "yellowplate_display_active",
			Help: "1 whilst a confirmed plate is being displayed",
		},
		func() float64 {
			if d.State().Active {
				return 1
			}
			return 0
		},
	)

	err := m.registry.Register(gauge)

	var are prometheus.AlreadyRegisteredError

	if errors.As(err, &are) {
		m.registry.Unregister(are.ExistingCollector)
		err = m.registry.Register(gauge)
	}

	if err != nil {
		return fmt.Errorf("error registering display gauge: %w", err)
	}

	return nil
}

// Registry returns the Prometheus registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// frame records a processed frame
func (m *Metrics) frame(candidates, recognized int) {

	if m == nil {
		return
	}

	m.FramesProcessed.Inc()
	m.CandidatesFound.Add(float64(candidates))
	m.PlatesRecognized.Add(float64(recognized))
}

// rejected records a candidate whose text was not a plate code
func (m *Metrics) rejected() {
	if m != nil {
		m.OCRRejected.Inc()
	}
}

// captureFailed records a camera read failure
func (m *Metrics) captureFailed() {
	if m != nil {
		m.CaptureFailures.Inc()
	}
}

// saveFailed records a failed plate image write
func (m *Metrics) saveFailed() {
	if m != nil {
		m.SaveFailures.Inc()
	}
}

// observe records the time taken for a frame
func (m *Metrics) observe(seconds float64) {
	if m != nil {
		m.FrameDuration.Observe(seconds)
	}
}
