package client

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK      = "ok"
	outcomePartial = "partial"
	outcomeAborted = "aborted"
)

// Metrics - счетчики синхронизации.
type Metrics struct {
	Cycles       *prometheus.CounterVec
	Pushed       *prometheus.CounterVec
	PushFailures *prometheus.CounterVec
}

// NewMetrics создает счетчики и регистрирует их в reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "babytracker",
			Subsystem: "sync",
			Name:      "cycles_total",
			Help:      "Sync cycles by outcome.",
		}, []string{"outcome"}),
		Pushed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "babytracker",
			Subsystem: "sync",
			Name:      "pushed_total",
			Help:      "Records accepted by the remote.",
		}, []string{"collection"}),
		PushFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "babytracker",
			Subsystem: "sync",
			Name:      "push_failures_total",
			Help:      "Pushes that stopped a collection for the cycle.",
		}, []string{"collection"}),
	}
	reg.MustRegister(m.Cycles, m.Pushed, m.PushFailures)
	return m
}
