package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 业务指标，注册在独立的 registry 上
// 所有方法允许 nil 接收者
type Metrics struct {
	registry *prometheus.Registry

	generations  *prometheus.CounterVec
	genDuration  *prometheus.HistogramVec
	outputsSaved *prometheus.CounterVec
	exports      *prometheus.CounterVec
}

// NewMetrics 创建指标集合
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contenta_generations_total",
			Help: "Generation calls partitioned by mode and status.",
		}, []string{"mode", "status"}),
		genDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contenta_generation_duration_seconds",
			Help:    "Upstream generation latency.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"mode"}),
		outputsSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contenta_outputs_saved_total",
			Help: "Records appended to output history.",
		}, []string{"mode"}),
		exports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "contenta_exports_total",
			Help: "Exported files partitioned by format.",
		}, []string{"format"}),
	}
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeGeneration(mode, status string, seconds float64) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(mode, status).Inc()
	m.genDuration.WithLabelValues(mode).Observe(seconds)
}

func (m *Metrics) outputSaved(mode string) {
	if m == nil {
		return
	}
	m.outputsSaved.WithLabelValues(mode).Inc()
}

func (m *Metrics) exported(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}
