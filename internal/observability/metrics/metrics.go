package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "dgr_"

	// ResultSuccess labels a successful operation.
	ResultSuccess = "success"
	// ResultError labels a failed operation.
	ResultError = "error"
)

var (
	registerOnce sync.Once

	windowLoadTotal   *prometheus.CounterVec
	windowLoadLatency *prometheus.HistogramVec
	windowDocuments   prometheus.Histogram

	reportGenerateTotal   *prometheus.CounterVec
	reportGenerateLatency *prometheus.HistogramVec

	reportExportTotal   *prometheus.CounterVec
	reportExportLatency *prometheus.HistogramVec

	draftSaveTotal *prometheus.CounterVec
	mailSendTotal  *prometheus.CounterVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		windowLoadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "window_load_total",
				Help: "Total telemetry window loads by result",
			},
			[]string{"result"},
		)
		windowLoadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "window_load_latency_seconds",
				Help:    "Telemetry window load latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		windowDocuments = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "window_documents",
				Help:    "Normalized readings returned per window load",
				Buckets: prometheus.ExponentialBuckets(10, 10, 5),
			},
		)

		reportGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_generate_total",
				Help: "Total report generate operations by result",
			},
			[]string{"result"},
		)
		reportGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_generate_latency_seconds",
				Help:    "Report generate latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		reportExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_export_total",
				Help: "Total report export operations by format and result",
			},
			[]string{"format", "result"},
		)
		reportExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_export_latency_seconds",
				Help:    "Report export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		draftSaveTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "draft_save_total",
				Help: "Total report draft saves by result",
			},
			[]string{"result"},
		)
		mailSendTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "mail_send_total",
				Help: "Total report mail sends by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			windowLoadTotal,
			windowLoadLatency,
			windowDocuments,
			reportGenerateTotal,
			reportGenerateLatency,
			reportExportTotal,
			reportExportLatency,
			draftSaveTotal,
			mailSendTotal,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveWindowLoad records one telemetry window load.
func ObserveWindowLoad(result string, documents int, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if windowLoadTotal != nil {
		windowLoadTotal.WithLabelValues(result).Inc()
	}
	if windowLoadLatency != nil {
		windowLoadLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
	if windowDocuments != nil && result == ResultSuccess {
		windowDocuments.Observe(float64(documents))
	}
}

// ObserveReportGenerate records report generation duration and result.
func ObserveReportGenerate(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if reportGenerateTotal != nil {
		reportGenerateTotal.WithLabelValues(result).Inc()
	}
	if reportGenerateLatency != nil {
		reportGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveReportExport records export duration by format and result.
func ObserveReportExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if reportExportTotal != nil {
		reportExportTotal.WithLabelValues(format, result).Inc()
	}
	if reportExportLatency != nil {
		reportExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncDraftSave increments the draft save counter.
func IncDraftSave(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if draftSaveTotal != nil {
		draftSaveTotal.WithLabelValues(result).Inc()
	}
}

// IncMailSend increments the mail send counter.
func IncMailSend(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if mailSendTotal != nil {
		mailSendTotal.WithLabelValues(result).Inc()
	}
}
