// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import "github.com/prometheus/client_golang/prometheus"

// Namespace is the prometheus namespace for all collectors of this module.
const Namespace = "logfan"

// metrics groups the per-logger collectors for statistical reasons.
type metrics struct {
	RecordCount *prometheus.CounterVec
	QueueDepth  prometheus.Gauge
	FaultCount  prometheus.Counter
}

// newMetrics returns a new metrics instance ready to use. Collectors
// are not registered anywhere; see Logger.Metrics.
func newMetrics() metrics {
	const subsystem = "log"

	return metrics{
		RecordCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "record_count",
			Help:      "Number of records written locally, by severity level.",
		}, []string{"level"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "queue_depth",
			Help:      "Number of records pending in the drain queue.",
		}),
		FaultCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: subsystem,
			Name:      "fault_count",
			Help:      "Number of drain loop failures reported to the fallback sink.",
		}),
	}
}

// Metrics returns the logger's prometheus collectors. They are not
// auto-registered; the host application picks the loggers it wants to
// expose and registers their collectors itself.
func (l *Logger) Metrics() []prometheus.Collector {
	return []prometheus.Collector{
		l.metrics.RecordCount,
		l.metrics.QueueDepth,
		l.metrics.FaultCount,
	}
}
