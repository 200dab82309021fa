// Package metrics records per-run parser statistics as prometheus metrics.
//
// logsift is a batch tool, so metrics are not served. They are written once
// per run in the node_exporter textfile collector format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "logsift"

// Recorder holds the counters for a parse run. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	filesParsed    prometheus.Counter
	bytesRead      *prometheus.CounterVec
	bytesDecoded   *prometheus.CounterVec
	events         *prometheus.CounterVec
	eventsFiltered prometheus.Counter
	parseErrors    *prometheus.CounterVec
	runDuration    prometheus.Gauge
	lastSuccess    prometheus.Gauge
}

// NewRecorder creates a Recorder backed by its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		filesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_parsed_total",
			Help:      "Log files read, decoded and scanned for events.",
		}),
		bytesRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_read_total",
			Help:      "Raw bytes read from log files.",
		}, []string{"compression"}),
		bytesDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_decoded_total",
			Help:      "Bytes produced by decompression.",
		}, []string{"compression"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events extracted, by log level.",
		}, []string{"level"}),
		eventsFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_filtered_total",
			Help:      "Matches dropped by the event filter.",
		}),
		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Parse runs that failed, by error kind.",
		}, []string{"kind"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last completed parse run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last parse run completed.",
		}),
	}

	r.registry.MustRegister(
		r.filesParsed,
		r.bytesRead,
		r.bytesDecoded,
		r.events,
		r.eventsFiltered,
		r.parseErrors,
		r.runDuration,
		r.lastSuccess,
	)

	return r
}

// Registry returns the registry the metrics are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// FileParsed records one processed file and its raw and decoded sizes.
func (r *Recorder) FileParsed(compression string, rawBytes, decodedBytes int) {
	if r == nil {
		return
	}
	r.filesParsed.Inc()
	r.bytesRead.WithLabelValues(compression).Add(float64(rawBytes))
	r.bytesDecoded.WithLabelValues(compression).Add(float64(decodedBytes))
}

// EventExtracted records one event at the given level.
func (r *Recorder) EventExtracted(level string) {
	if r == nil {
		return
	}
	r.events.WithLabelValues(level).Inc()
}

// EventFiltered records n matches dropped by the filter.
func (r *Recorder) EventFiltered(n int) {
	if r == nil || n == 0 {
		return
	}
	r.eventsFiltered.Add(float64(n))
}

// ParseFailed records a failed run.
func (r *Recorder) ParseFailed(kind string) {
	if r == nil {
		return
	}
	r.parseErrors.WithLabelValues(kind).Inc()
}

// RunCompleted records the duration of a successful run.
func (r *Recorder) RunCompleted(d time.Duration) {
	if r == nil {
		return
	}
	r.runDuration.Set(d.Seconds())
	r.lastSuccess.SetToCurrentTime()
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is written atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
