package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec

	strategyTotal       *prometheus.CounterVec
	qualityRejectsTotal *prometheus.CounterVec
	degradedRunsTotal   *prometheus.CounterVec
	verdictTotal        *prometheus.CounterVec
	qualityComposite    *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdx",
			Subsystem: "worker",
			Name:      "document_process_total",
			Help:      "Total processed documents by result.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fdx",
			Subsystem: "worker",
			Name:      "document_process_duration_seconds",
			Help:      "Document processing duration in seconds by result.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "fdx",
			Subsystem: "worker",
			Name:      "document_process_in_flight",
			Help:      "Number of in-flight pipeline runs.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fdx",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document upload and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	strategyTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdx",
			Subsystem: "pipeline",
			Name:      "strategy_total",
			Help:      "Pipeline runs by chosen processing strategy.",
		},
		[]string{"service", "strategy"},
	)
	qualityRejectsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdx",
			Subsystem: "pipeline",
			Name:      "quality_rejects_total",
			Help:      "Documents stopped by the quality gate.",
		},
		[]string{"service"},
	)
	degradedRunsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdx",
			Subsystem: "pipeline",
			Name:      "degraded_runs_total",
			Help:      "Runs that lost an extraction provider and continued.",
		},
		[]string{"service"},
	)
	verdictTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fdx",
			Subsystem: "pipeline",
			Name:      "verdict_total",
			Help:      "Validation verdicts by status and document type.",
		},
		[]string{"service", "status", "doc_type"},
	)
	qualityComposite := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fdx",
			Subsystem: "pipeline",
			Name:      "quality_composite",
			Help:      "Distribution of composite quality scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 55, 60, 70, 80, 90, 100},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		processTotal,
		processDuration,
		processInFlight,
		queueLag,
		strategyTotal,
		qualityRejectsTotal,
		degradedRunsTotal,
		verdictTotal,
		qualityComposite,
	)

	return &WorkerMetrics{
		registry:            registry,
		processTotal:        processTotal,
		processDuration:     processDuration,
		processInFlight:     processInFlight,
		queueLag:            queueLag,
		strategyTotal:       strategyTotal,
		qualityRejectsTotal: qualityRejectsTotal,
		degradedRunsTotal:   degradedRunsTotal,
		verdictTotal:        verdictTotal,
		qualityComposite:    qualityComposite,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDocument() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishDocument(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordStrategy(service, strategy string) {
	if strategy == "" {
		strategy = "unknown"
	}
	m.strategyTotal.WithLabelValues(service, strategy).Inc()
}

func (m *WorkerMetrics) RecordQuality(service string, composite float64, rejected bool) {
	m.qualityComposite.WithLabelValues(service).Observe(composite)
	if rejected {
		m.qualityRejectsTotal.WithLabelValues(service).Inc()
	}
}

func (m *WorkerMetrics) RecordDegradedRun(service string) {
	m.degradedRunsTotal.WithLabelValues(service).Inc()
}

func (m *WorkerMetrics) RecordVerdict(service, status, docType string) {
	if docType == "" {
		docType = "unknown"
	}
	m.verdictTotal.WithLabelValues(service, status, docType).Inc()
}
