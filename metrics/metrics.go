// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics prometheus 指标注册
package metrics

import (
	"reflect"

	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var mlog = log.New("module", "metrics")

// Namespace prefix of every exported metric
var Namespace = "ledgercore"

// Collector a struct exposing its prometheus collectors
type Collector interface {
	Metrics() []prometheus.Collector
}

// PrometheusCollectorsFromFields exported fields of i that are collectors
func PrometheusCollectorsFromFields(i interface{}) (cs []prometheus.Collector) {
	v := reflect.Indirect(reflect.ValueOf(i))
	for i := 0; i < v.NumField(); i++ {
		if !v.Field(i).CanInterface() {
			continue
		}
		if u, ok := v.Field(i).Interface().(prometheus.Collector); ok {
			cs = append(cs, u)
		}
	}
	return cs
}

// Register 注册 c 的全部指标，已经注册过的忽略
func Register(reg prometheus.Registerer, c Collector) error {
	for _, m := range c.Metrics() {
		err := reg.Register(m)
		if err == nil {
			continue
		}
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			mlog.Debug("Register already registered", "err", err)
			continue
		}
		return errors.Wrap(err, "register collector")
	}
	return nil
}
