package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 认证相关指标，nil 接收者上的方法都是空操作
type Metrics struct {
	LoginAttemptsTotal  *prometheus.CounterVec
	TokenRefreshesTotal *prometheus.CounterVec
	LogoutsTotal        *prometheus.CounterVec
	GuardDecisionsTotal *prometheus.CounterVec
}

// NewMetrics 创建并注册全部指标
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ts_admin_login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"},
		),
		TokenRefreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ts_admin_token_refreshes_total",
				Help: "Total number of access token refreshes",
			},
			[]string{"status"},
		),
		LogoutsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ts_admin_logouts_total",
				Help: "Total number of session invalidations",
			},
			[]string{"reason"},
		),
		GuardDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ts_admin_guard_decisions_total",
				Help: "Total number of request authorization decisions",
			},
			[]string{"decision"},
		),
	}

	registry.MustRegister(
		m.LoginAttemptsTotal,
		m.TokenRefreshesTotal,
		m.LogoutsTotal,
		m.GuardDecisionsTotal,
	)
	return m
}

func statusLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func (m *Metrics) ObserveLogin(ok bool) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(statusLabel(ok)).Inc()
}

func (m *Metrics) ObserveRefresh(ok bool) {
	if m == nil {
		return
	}
	m.TokenRefreshesTotal.WithLabelValues(statusLabel(ok)).Inc()
}

// ObserveLogout reason 为 logout / kick_out / password_changed
func (m *Metrics) ObserveLogout(reason string) {
	if m == nil {
		return
	}
	m.LogoutsTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveDecision(decision string) {
	if m == nil {
		return
	}
	m.GuardDecisionsTotal.WithLabelValues(decision).Inc()
}
