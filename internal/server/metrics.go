package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 演示服务指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal *prometheus.CounterVec

	// 注册结果指标
	UsersCreated prometheus.Counter

	// 唯一键冲突翻译指标，按字段路径区分
	DuplicateConflicts *prometheus.CounterVec
}

// NewMetrics 创建指标实例并注册到 reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		UsersCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "users_created_total",
				Help:      "Successfully registered users",
			},
		),
		DuplicateConflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "duplicate_conflicts_total",
				Help:      "Unique-index conflicts translated to field errors",
			},
			[]string{"path"},
		),
	}
}
