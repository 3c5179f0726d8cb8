package trainlog

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Name   string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Final  float64
}

// Summarize computes per-metric statistics over the epochs where the
// metric was actually reported. The epoch counter itself is excluded.
func Summarize(metrics Metrics) []Summary {
	var results []Summary
	for _, name := range metricOrder(metrics) {
		values := dropNaN(metrics[name])
		if len(values) == 0 {
			continue
		}
		var summary Summary
		summary.Name = name
		summary.Count = len(values)
		summary.Mean = stat.Mean(values, nil)
		summary.StdDev = stat.StdDev(values, nil)
		summary.Min = values[0]
		for _, value := range values {
			if value < summary.Min {
				summary.Min = value
			}
		}
		summary.Final = values[len(values)-1]
		results = append(results, summary)
	}
	return results
}

// metricOrder lists the expected metrics first, then any extra metrics
// the trainer logged, alphabetically.
func metricOrder(metrics Metrics) []string {
	var order []string
	for _, name := range ExpectedMetrics {
		if name == `epoch` {
			continue
		}
		if _, ok := metrics[name]; ok {
			order = append(order, name)
		}
	}
	var extras []string
	for name := range metrics {
		if name == `epoch` || contains(order, name) {
			continue
		}
		extras = append(extras, name)
	}
	sort.Strings(extras)
	return append(order, extras...)
}

func dropNaN(values []float64) []float64 {
	var results []float64
	for _, value := range values {
		if !math.IsNaN(value) {
			results = append(results, value)
		}
	}
	return results
}
