// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"time"

	"github.com/33cn/ledgercore/metrics"
	"github.com/33cn/ledgercore/types"
	"github.com/prometheus/client_golang/prometheus"
	go_metrics "github.com/rcrowley/go-metrics"
)

// Metrics 交易处理统计，prometheus 指标按 executor 实例创建，go-metrics 使用默认 registry
type Metrics struct {
	Handled    *prometheus.CounterVec
	HandleTime prometheus.Histogram

	handled go_metrics.Counter
	ignored go_metrics.Counter
	failed  go_metrics.Counter
	timer   go_metrics.Timer
}

// NewMetrics new metrics
func NewMetrics() *Metrics {
	return &Metrics{
		Handled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "executor",
			Name:      "handled_total",
			Help:      "Transactions handled, by receipt status.",
		}, []string{"status"}),
		HandleTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "executor",
			Name:      "handle_seconds",
			Help:      "Time spent handling one submission.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		handled: go_metrics.GetOrRegisterCounter("executor/handled", nil),
		ignored: go_metrics.GetOrRegisterCounter("executor/ignored", nil),
		failed:  go_metrics.GetOrRegisterCounter("executor/failed", nil),
		timer:   go_metrics.GetOrRegisterTimer("executor/handle-time", nil),
	}
}

// Metrics implements metrics.Collector
func (m *Metrics) Metrics() []prometheus.Collector {
	return metrics.PrometheusCollectorsFromFields(m)
}

func (m *Metrics) count(status types.ResponseCode) {
	m.handled.Inc(1)
	if status != types.OK {
		m.failed.Inc(1)
	}
	m.Handled.WithLabelValues(status.String()).Inc()
}

func (m *Metrics) ignore() {
	m.ignored.Inc(1)
}

func (m *Metrics) observe(start time.Time) {
	m.timer.UpdateSince(start)
	m.HandleTime.Observe(time.Since(start).Seconds())
}
