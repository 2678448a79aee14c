package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// getMetricValue retrieves the current float64 value of a Prometheus GaugeVec metric
// for the given set of labels. Returns an error if the metric cannot be parsed.
func getMetricValue(metric *prometheus.GaugeVec, labels map[string]string) (float64, error) {
	return collectValue(metric.With(labels))
}

// getCounterValue is getMetricValue for counters.
func getCounterValue(metric *prometheus.CounterVec, labels map[string]string) (float64, error) {
	return collectValue(metric.With(labels))
}

func collectValue(collector prometheus.Collector) (float64, error) {
	c := make(chan prometheus.Metric, 1)
	collector.Collect(c)
	m := <-c

	pb := &dto.Metric{}
	if err := m.Write(pb); err != nil {
		return 0, err
	}

	switch {
	case pb.Gauge != nil:
		return pb.Gauge.GetValue(), nil
	case pb.Counter != nil:
		return pb.Counter.GetValue(), nil
	case pb.Histogram != nil:
		return float64(pb.Histogram.GetSampleCount()), nil
	}
	return 0, nil
}
