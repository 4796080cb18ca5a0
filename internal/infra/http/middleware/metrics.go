package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	recordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_records_created_total",
			Help: "Total number of CRM records created",
		},
		[]string{"kind"},
	)

	pipelineLeads = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crm_pipeline_leads",
			Help: "Leads in the pipeline by status",
		},
		[]string{"status"},
	)

	pipelineOpportunities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crm_pipeline_opportunities",
			Help: "Opportunities in the pipeline by stage",
		},
		[]string{"stage"},
	)

	pipelineValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crm_pipeline_value",
			Help: "Summed value of all opportunities",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps record IDs out of the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	loginsTotal.WithLabelValues(result).Inc()
}

func RecordRecordCreated(kind string) {
	recordsCreated.WithLabelValues(kind).Inc()
}

// PipelineSnapshot is the unrestricted dashboard view published as gauges.
type PipelineSnapshot struct {
	TotalLeads         int
	NewLeads           int
	QualifiedLeads     int
	TotalOpportunities int
	WonOpportunities   int
	TotalValue         float64
}

func SetPipelineSnapshot(s PipelineSnapshot) {
	pipelineLeads.WithLabelValues("total").Set(float64(s.TotalLeads))
	pipelineLeads.WithLabelValues("new").Set(float64(s.NewLeads))
	pipelineLeads.WithLabelValues("qualified").Set(float64(s.QualifiedLeads))
	pipelineOpportunities.WithLabelValues("total").Set(float64(s.TotalOpportunities))
	pipelineOpportunities.WithLabelValues("won").Set(float64(s.WonOpportunities))
	pipelineValue.Set(s.TotalValue)
}
