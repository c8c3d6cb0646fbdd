package metrics

import "github.com/taoyao-code/xtstate/internal/xtstate"

// StateObserver 将引擎事件桥接到 Prometheus 指标。
// 激活/去激活事件同时驱动 xtstate_activated gauge。
func StateObserver(m *AppMetrics) xtstate.Observer {
	return xtstate.ObserverFunc(func(operation, status string) {
		switch operation {
		case "setup":
			m.SetupTotal.WithLabelValues(status).Inc()
			if status == "ok" {
				m.ActivatedGauge.Set(0)
				m.HistoryLength.Set(0)
			}
		case "update":
			m.UpdateTotal.WithLabelValues(status).Inc()
			switch status {
			case "activated":
				m.ActivatedGauge.Set(1)
				m.HistoryLength.Inc()
			case "deactivated":
				m.ActivatedGauge.Set(0)
				m.HistoryLength.Inc()
			case "ok":
				m.HistoryLength.Inc()
			}
		}
	})
}
