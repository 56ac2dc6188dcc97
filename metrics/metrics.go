// Package metrics exposes the trading activity of a session as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/etnz/stocksim"
)

// Recorder is a stocksim.Observer counting executed and rejected trades.
//
// Each Recorder owns its registry, so several sessions never share counters.
type Recorder struct {
	registry   *prometheus.Registry
	trades     *prometheus.CounterVec
	amount     *prometheus.CounterVec
	rejections *prometheus.CounterVec
	cash       prometheus.Gauge
}

// NewRecorder creates a Recorder with its metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		trades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocksim_trades_total",
			Help: "Number of executed trades.",
		}, []string{"command"}),
		amount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocksim_traded_amount_total",
			Help: "Cash amount spent by buys and received by sells.",
		}, []string{"command"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stocksim_rejections_total",
			Help: "Number of rejected trades by reason.",
		}, []string{"command", "reason"}),
		cash: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stocksim_cash",
			Help: "Cash balance after the last executed trade.",
		}),
	}
	r.registry.MustRegister(r.trades, r.amount, r.rejections, r.cash)
	return r
}

// Registry returns the registry holding the recorder metrics.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// SetCash sets the cash gauge, typically when a session is loaded.
func (r *Recorder) SetCash(cash stocksim.Money) {
	f, _ := cash.Decimal().Float64()
	r.cash.Set(f)
}

// Executed implements stocksim.Observer.
func (r *Recorder) Executed(tx stocksim.Transaction, cash stocksim.Money) {
	command := string(tx.Command)
	r.trades.WithLabelValues(command).Inc()
	total, _ := tx.Total.Decimal().Float64()
	r.amount.WithLabelValues(command).Add(total)
	r.SetCash(cash)
}

// Rejected implements stocksim.Observer.
func (r *Recorder) Rejected(command stocksim.CommandType, err error) {
	r.rejections.WithLabelValues(string(command), stocksim.Reason(err)).Inc()
}

// WriteTextfile writes the metrics to filename in the node exporter textfile format.
func (r *Recorder) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, r.registry)
}
