// Package metrics Prometheus 指标导出
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 包含所有 API Server 指标
//
// 每个实例使用独立的 Registry，测试中可重复创建。
// 所有 Record* 方法对 nil 接收者安全。
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求指标
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// 业务指标
	JobsTotal          *prometheus.CounterVec
	ApplicationsTotal  *prometheus.CounterVec
	DecisionsTotal     *prometheus.CounterVec
	OffersTotal        *prometheus.CounterVec
	RateLimitedTotal   *prometheus.CounterVec
	OfferRenderSeconds prometheus.Histogram
}

// New 创建指标实例
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		JobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_total",
				Help:      "Job catalog mutations by operation",
			},
			[]string{"operation"},
		),
		ApplicationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "applications_total",
				Help:      "Application lifecycle events by operation",
			},
			[]string{"operation"},
		),
		DecisionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "application_decisions_total",
				Help:      "Application decisions by status and source",
			},
			[]string{"status", "source"},
		),
		OffersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "offers_generated_total",
				Help:      "Offer documents requested by result",
			},
			[]string{"result"},
		),
		RateLimitedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_total",
				Help:      "Requests rejected by the rate limiter",
			},
			[]string{"scope"},
		),
		OfferRenderSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "offer_render_duration_seconds",
				Help:      "Offer document render duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
	}
}

// Registry 返回底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回 Prometheus HTTP Handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware 创建 HTTP 指标中间件
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		// 包装 ResponseWriter 以捕获状态码
		wrapped := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := NormalizePath(r.URL.Path)
		status := strconv.Itoa(wrapped.StatusCode)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		if wrapped.StatusCode == http.StatusTooManyRequests {
			m.RateLimitedTotal.WithLabelValues(path).Inc()
		}
	})
}

// ResponseWriter 包装 http.ResponseWriter 以捕获状态码
type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(code int) {
	rw.StatusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// 含 ID 段的资源前缀，ID 之后的段保持原样
var idSegments = map[string]bool{
	"jobs":         true,
	"applications": true,
	"users":        true,
}

// NormalizePath 规范化路径，将 ID 替换为占位符，避免高基数
//
//	/api/v1/jobs/job-1a2b            -> /api/v1/jobs/{id}
//	/api/v1/applications/app-9/offer -> /api/v1/applications/{id}/offer
func NormalizePath(path string) string {
	if !strings.HasPrefix(path, "/api/v1/") {
		return path
	}
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	for i := 1; i < len(parts); i++ {
		if idSegments[parts[i-1]] && parts[i] != "" {
			parts[i] = "{id}"
		}
	}
	return strings.Join(parts, "/")
}

// ============================================================================
// 业务指标
// ============================================================================

// RecordJob 记录职位变更（create/update/delete）
func (m *Metrics) RecordJob(operation string) {
	if m == nil {
		return
	}
	m.JobsTotal.WithLabelValues(operation).Inc()
}

// RecordApplication 记录申请事件（apply/withdraw）
func (m *Metrics) RecordApplication(operation string) {
	if m == nil {
		return
	}
	m.ApplicationsTotal.WithLabelValues(operation).Inc()
}

// RecordDecision 记录决策，source 为 employer 或 admin
func (m *Metrics) RecordDecision(status, source string) {
	if m == nil {
		return
	}
	m.DecisionsTotal.WithLabelValues(status, source).Inc()
}

// RecordOffer 记录通知书生成结果与耗时
func (m *Metrics) RecordOffer(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.OffersTotal.WithLabelValues(result).Inc()
	if result == "ok" {
		m.OfferRenderSeconds.Observe(duration.Seconds())
	}
}
