package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal    *prometheus.CounterVec
	uploadSizeBytes *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdx",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fdx",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fdx",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdx",
			Subsystem: "ingest",
			Name:      "uploads_total",
			Help:      "Total document uploads by declared format.",
		},
		[]string{"service", "format", "status"},
	)
	uploadSizeBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fdx",
			Subsystem: "ingest",
			Name:      "upload_size_bytes",
			Help:      "Distribution of uploaded document sizes.",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 8),
		},
		[]string{"service", "format"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		uploadSizeBytes,
	)

	return &HTTPServerMetrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		uploadsTotal:    uploadsTotal,
		uploadSizeBytes: uploadSizeBytes,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUpload(service, format, status string, sizeBytes int64) {
	if format == "" {
		format = "unknown"
	}
	m.uploadsTotal.WithLabelValues(service, format, status).Inc()
	if sizeBytes > 0 {
		m.uploadSizeBytes.WithLabelValues(service, format).Observe(float64(sizeBytes))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
