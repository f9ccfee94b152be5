// Package metrics provides Prometheus instrumentation for ledger activity.
package metrics

import (
	"math/big"
	"net/http"

	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/Mohsinsiddi/dftcli/internal/units"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "dftcli"

// Metrics holds all Prometheus collectors for one ledger.
type Metrics struct {
	MintsTotal     prometheus.Counter
	TransfersTotal prometheus.Counter

	// Token amounts are exported in whole tokens. Values are floats and
	// therefore approximate; the ledger itself stays exact.
	MintedTokens      prometheus.Counter
	BurnedTokens      prometheus.Counter
	FeeTokens         prometheus.Counter
	TotalSupplyTokens prometheus.Gauge
	HoldersGauge      prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg uses a fresh private
// registry, so several ledgers can be instrumented in one process.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		MintsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "mints_total",
			Help:      "Total number of successful mints",
		}),
		TransfersTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "transfers_total",
			Help:      "Total number of successful transfers",
		}),
		MintedTokens: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "minted_tokens_total",
			Help:      "Tokens created by mint",
		}),
		BurnedTokens: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "burned_tokens_total",
			Help:      "Tokens removed from circulation by transfer burns",
		}),
		FeeTokens: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "fee_tokens_total",
			Help:      "Tokens paid to the fee beneficiary",
		}),
		TotalSupplyTokens: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "total_supply_tokens",
			Help:      "Current total supply",
		}),
		HoldersGauge: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "holders",
			Help:      "Number of accounts with a non-zero balance",
		}),
		gatherer: reg,
	}
}

// Observe records a ledger event. Pass it to ledger.WithObserver.
func (m *Metrics) Observe(ev ledger.Event) {
	switch ev.Kind {
	case ledger.KindMint:
		m.MintsTotal.Inc()
		m.MintedTokens.Add(Tokens(ev.Split.Amount))
	case ledger.KindTransfer:
		m.TransfersTotal.Inc()
		m.BurnedTokens.Add(Tokens(ev.Split.Burn))
		m.FeeTokens.Add(Tokens(ev.Split.Fee))
	}
}

// Sync refreshes the gauges from the ledger's current state.
func (m *Metrics) Sync(l *ledger.Ledger) {
	m.TotalSupplyTokens.Set(Tokens(l.TotalSupply()))
	m.HoldersGauge.Set(float64(len(l.Holders())))
}

// Handler returns an HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

var tokenScale = new(big.Float).SetInt(units.Pow10(ledger.Decimals))

// Tokens converts base units to an approximate whole-token float.
func Tokens(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(v), tokenScale).Float64()
	return f
}

// Advance moves the counters forward by the difference between two stats
// readings of the same ledger. Used when the ledger lives in another
// process and only its snapshots are visible. A zero prev counts
// everything in cur.
func (m *Metrics) Advance(prev, cur ledger.Stats) {
	if cur.Mints > prev.Mints {
		m.MintsTotal.Add(float64(cur.Mints - prev.Mints))
	}
	if cur.Transfers > prev.Transfers {
		m.TransfersTotal.Add(float64(cur.Transfers - prev.Transfers))
	}
	m.MintedTokens.Add(Tokens(growth(prev.Minted, cur.Minted)))
	m.BurnedTokens.Add(Tokens(growth(prev.Burned, cur.Burned)))
	m.FeeTokens.Add(Tokens(growth(prev.FeesCollected, cur.FeesCollected)))
}

// growth returns cur-prev, or zero when the value did not grow (a
// re-initialised ledger starts its counters again).
func growth(prev, cur *big.Int) *big.Int {
	if cur == nil {
		return new(big.Int)
	}
	if prev == nil {
		return cur
	}
	d := new(big.Int).Sub(cur, prev)
	if d.Sign() < 0 {
		return new(big.Int)
	}
	return d
}
