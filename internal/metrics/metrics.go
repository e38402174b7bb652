// Package metrics counts maze attempts and path lengths with Prometheus
// collectors, so a run can be summarized in a node-exporter textfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	maze "github.com/yalue/replan_maze"
)

// Recorder satisfies maze.Observer. Create using NewRecorder.
type Recorder struct {
	registry   *prometheus.Registry
	attempts   *prometheus.CounterVec
	pathLength *prometheus.HistogramVec
	obstacles  prometheus.Counter
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maze_attempts_total",
				Help: "Total number of maze attempts, by outcome",
			},
			[]string{"outcome"},
		),
		pathLength: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "maze_path_length",
				Help:    "Number of cells in found paths",
				Buckets: prometheus.LinearBuckets(0, 10, 10),
			},
			[]string{"search"},
		),
		obstacles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "maze_obstacles_placed_total",
			Help: "Total number of obstacles placed along first paths",
		}),
	}
	r.registry.MustRegister(r.attempts, r.pathLength, r.obstacles)
	return r
}

// ObserveAttempt records the outcome of one attempt and the length of any
// paths it found.
func (r *Recorder) ObserveAttempt(a *maze.Attempt) {
	r.attempts.WithLabelValues(a.Outcome.String()).Inc()
	if a.FirstPath != nil {
		r.pathLength.WithLabelValues("first").Observe(float64(a.FirstPath.Len()))
	}
	if a.SecondPath != nil {
		r.pathLength.WithLabelValues("replan").Observe(float64(a.SecondPath.Len()))
	}
	r.obstacles.Add(float64(len(a.Placed)))
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
