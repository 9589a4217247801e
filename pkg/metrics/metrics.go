// Package metrics keeps a process-wide prometheus registry behind a small
// name-and-labels API. Collectors are created on first use; the label set
// seen first for a name fixes that collector's label names. Later calls with
// different label keys are dropped with a warning.
package metrics

import (
	"bytes"
	"slices"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/zmlAEQ/bls-signatures/pkg/logger"
)

var (
	mu        sync.Mutex
	reg       = prometheus.NewRegistry()
	counters  = map[string]*prometheus.CounterVec{}
	gauges    = map[string]*prometheus.GaugeVec{}
	summaries = map[string]*prometheus.SummaryVec{}
	labelSets = map[string][]string{}
)

// labelNames returns the label keys fixed for name, registering them on first
// use. ok is false when labels carries a different key set.
func labelNames(name string, labels map[string]string) (keys []string, ok bool) {
	ks := make([]string, 0, len(labels))
	for k := range labels {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	fixed, seen := labelSets[name]
	if !seen {
		labelSets[name] = ks
		return ks, true
	}
	if !slices.Equal(fixed, ks) {
		logger.WarnJ("metrics_label_mismatch", map[string]any{"metric": name, "want": fixed, "got": ks})
		return nil, false
	}
	return fixed, true
}

func values(keys []string, labels map[string]string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = labels[k]
	}
	return out
}

// Inc increments the counter name with the given labels.
func Inc(name string, labels map[string]string) {
	mu.Lock()
	defer mu.Unlock()
	keys, ok := labelNames(name, labels)
	if !ok {
		return
	}
	c, ok := counters[name]
	if !ok {
		c = prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: name}, keys)
		if err := reg.Register(c); err != nil {
			return
		}
		counters[name] = c
	}
	c.WithLabelValues(values(keys, labels)...).Inc()
}

// AddGauge adds delta to the gauge name.
func AddGauge(name string, labels map[string]string, delta int64) {
	if g := gauge(name, labels); g != nil {
		g.Add(float64(delta))
	}
}

// SetGauge sets the gauge name to v.
func SetGauge(name string, labels map[string]string, v int64) {
	if g := gauge(name, labels); g != nil {
		g.Set(float64(v))
	}
}

func gauge(name string, labels map[string]string) prometheus.Gauge {
	mu.Lock()
	defer mu.Unlock()
	keys, ok := labelNames(name, labels)
	if !ok {
		return nil
	}
	g, ok := gauges[name]
	if !ok {
		g = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: name}, keys)
		if err := reg.Register(g); err != nil {
			return nil
		}
		gauges[name] = g
	}
	return g.WithLabelValues(values(keys, labels)...)
}

// ObserveSummary records v in the summary name.
func ObserveSummary(name string, labels map[string]string, v float64) {
	mu.Lock()
	defer mu.Unlock()
	keys, ok := labelNames(name, labels)
	if !ok {
		return
	}
	s, ok := summaries[name]
	if !ok {
		s = prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       name,
			Help:       name,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, keys)
		if err := reg.Register(s); err != nil {
			return
		}
		summaries[name] = s
	}
	s.WithLabelValues(values(keys, labels)...).Observe(v)
}

// Registry exposes the underlying registry, e.g. for promhttp.
func Registry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	return reg
}

// DumpProm renders every collector in the prometheus text format.
func DumpProm() string {
	mfs, err := Registry().Gather()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return buf.String()
		}
	}
	return buf.String()
}

// Reset drops all collectors. Gauges maintained with AddGauge restart from
// zero, so callers tracking a level should prefer SetGauge.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	reg = prometheus.NewRegistry()
	counters = map[string]*prometheus.CounterVec{}
	gauges = map[string]*prometheus.GaugeVec{}
	summaries = map[string]*prometheus.SummaryVec{}
	labelSets = map[string][]string{}
}
