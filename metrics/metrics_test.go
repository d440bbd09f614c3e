// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metrics

import (
	"testing"

	log "github.com/33cn/ledgercore/common/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.Discard()
}

type sample struct {
	Count   prometheus.Counter
	Gauge   prometheus.Gauge
	Name    string
	private prometheus.Counter
}

func (s *sample) Metrics() []prometheus.Collector {
	return PrometheusCollectorsFromFields(s)
}

func newSample() *sample {
	return &sample{
		Count:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: Namespace, Name: "sample_total"}),
		Gauge:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: Namespace, Name: "sample_gauge"}),
		Name:    "sample",
		private: prometheus.NewCounter(prometheus.CounterOpts{Namespace: Namespace, Name: "private_total"}),
	}
}

func TestPrometheusCollectorsFromFields(t *testing.T) {
	s := newSample()
	cs := s.Metrics()
	assert.Len(t, cs, 2)
}

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newSample()
	require.NoError(t, Register(reg, s))
	// second time is ignored
	require.NoError(t, Register(reg, s))

	s.Count.Add(3)
	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]float64)
	for _, mf := range families {
		if mf.GetName() == "ledgercore_sample_total" {
			names[mf.GetName()] = mf.GetMetric()[0].GetCounter().GetValue()
		} else {
			names[mf.GetName()] = 0
		}
	}
	assert.Equal(t, float64(3), names["ledgercore_sample_total"])
	assert.Contains(t, names, "ledgercore_sample_gauge")
}

func TestRegisterConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg, newSample()))
	other := &sample{
		Count: prometheus.NewCounter(prometheus.CounterOpts{Namespace: Namespace, Name: "sample_total", Help: "different help"}),
	}
	assert.Error(t, Register(reg, other))
}
