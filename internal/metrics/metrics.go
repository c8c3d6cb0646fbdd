package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，并注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 自定义业务指标
type AppMetrics struct {
	SetupTotal     *prometheus.CounterVec // labels: status=ok|already_setup
	UpdateTotal    *prometheus.CounterVec // labels: status=ok|activated|deactivated|not_setup|unknown_identifier|no_slots
	ActivatedGauge prometheus.Gauge       // 当前激活状态 0/1
	HistoryLength  prometheus.Gauge       // 当前历史条目数
	CheckinTotal   prometheus.Counter     // HTTP 签到请求计数
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		SetupTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xtstate_setup_total",
			Help: "Slot setup attempts by status.",
		}, []string{"status"}),
		UpdateTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xtstate_update_total",
			Help: "Slot update attempts by status.",
		}, []string{"status"}),
		ActivatedGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xtstate_activated",
			Help: "Whether all slots are currently true (1) or not (0).",
		}),
		HistoryLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xtstate_history_length",
			Help: "Number of recorded slot transitions.",
		}),
		CheckinTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xtstate_http_checkin_total",
			Help: "Total slot check-in requests over HTTP.",
		}),
	}
	reg.MustRegister(m.SetupTotal, m.UpdateTotal, m.ActivatedGauge, m.HistoryLength, m.CheckinTotal)
	return m
}
