package fetchxtest

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// GetMetricValue reads the value of a metric by name and label set from a
// registry. Histograms report their sample count.
func GetMetricValue(registry *prometheus.Registry, name string, labels map[string]string) (float64, error) {
	families, err := registry.Gather()
	if err != nil {
		return 0, fmt.Errorf("gather metrics: %w", err)
	}

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if !matchesLabels(metric, labels) {
				continue
			}
			switch {
			case metric.Counter != nil:
				return metric.Counter.GetValue(), nil
			case metric.Gauge != nil:
				return metric.Gauge.GetValue(), nil
			case metric.Histogram != nil:
				return float64(metric.Histogram.GetSampleCount()), nil
			}
		}
	}

	return 0, fmt.Errorf("metric %q with labels %v not found", name, labels)
}

// AssertMetricValue fails the test unless the metric with the given name
// and labels has the expected value.
func AssertMetricValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string, expected float64) {
	t.Helper()

	actual, err := GetMetricValue(registry, name, labels)
	if err != nil {
		t.Fatalf("get metric value: %v", err)
	}
	if actual != expected {
		t.Errorf("metric %q with labels %v: got %v, want %v", name, labels, actual, expected)
	}
}

// AssertMetricExists fails the test unless a metric with the given name is
// present in the registry.
func AssertMetricExists(t *testing.T, registry *prometheus.Registry, name string) {
	t.Helper()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return
		}
	}
	t.Errorf("metric %q not found in registry", name)
}

func matchesLabels(metric *dto.Metric, expected map[string]string) bool {
	if len(expected) == 0 {
		return true
	}

	actual := make(map[string]string, len(metric.GetLabel()))
	for _, label := range metric.GetLabel() {
		actual[label.GetName()] = label.GetValue()
	}

	for k, want := range expected {
		if got, ok := actual[k]; !ok || got != want {
			return false
		}
	}
	return true
}
