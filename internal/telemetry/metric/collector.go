package metric

import "github.com/prometheus/client_golang/prometheus"

// PhaseCollector reports the current session phase as a one-hot gauge.
// The phase is read at scrape time.
type PhaseCollector struct {
	phases  []string
	current func() string
	desc    *prometheus.Desc
}

// NewPhaseCollector creates a collector over the given phase names.
func NewPhaseCollector(phases []string, current func() string) *PhaseCollector {
	return &PhaseCollector{
		phases:  phases,
		current: current,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "phase"),
			"Current session phase (1 for the active phase).",
			[]string{"phase"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *PhaseCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *PhaseCollector) Collect(ch chan<- prometheus.Metric) {
	cur := c.current()
	for _, p := range c.phases {
		v := 0.0
		if p == cur {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, v, p)
	}
}
