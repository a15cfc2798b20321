// Package metrics exports replay results as Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rustyeddy/ledgerbank/bank"
)

// Collector counts outcomes as they are recorded and holds the final
// balances of a run. It implements bank.ActivityLog.
type Collector struct {
	reg *prometheus.Registry

	Outcomes *prometheus.CounterVec
	Amounts  *prometheus.CounterVec
	Balances *prometheus.GaugeVec
	Workers  prometheus.Gauge
	Duration prometheus.Gauge
}

// New registers the replay metrics under namespace on a private registry.
func New(namespace string) *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Recorded ledger outcomes by mode and result",
		}, []string{"mode", "result"}),
		Amounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "amount_total",
			Help:      "Sum of amounts moved by successful operations, by mode",
		}, []string{"mode"}),
		Balances: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "account_balance",
			Help:      "Final account balance",
		}, []string{"account"}),
		Workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Number of workers in the pool",
		}),
		Duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "replay_duration_seconds",
			Help:      "Wall time spent draining the ledger",
		}),
	}
	c.reg.MustRegister(c.Outcomes, c.Amounts, c.Balances, c.Workers, c.Duration)
	return c
}

func (c *Collector) Append(o bank.Outcome) error {
	result := "success"
	if !o.OK() {
		result = "fail"
	}
	mode := o.Mode.String()
	c.Outcomes.WithLabelValues(mode, result).Inc()
	if o.OK() {
		c.Amounts.WithLabelValues(mode).Add(float64(o.Amount))
	}
	return nil
}

// ObserveBalances sets the balance gauge of every account.
func (c *Collector) ObserveBalances(balances []bank.Balance) {
	for _, b := range balances {
		c.Balances.WithLabelValues(strconv.Itoa(b.ID)).Set(float64(b.Amount))
	}
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// WriteFile writes all metrics in the text exposition format, for the node
// exporter textfile collector.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.reg)
}
