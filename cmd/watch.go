package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Mohsinsiddi/dftcli/internal/ledger"
	"github.com/Mohsinsiddi/dftcli/internal/metrics"
	"github.com/Mohsinsiddi/dftcli/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchInterval time.Duration
	watchMetrics  string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of supply, burns and holders",
	Long: `Re-read the ledger every interval and show supply counters and the
holder table. Other dftcli commands run in another terminal show up on the
next refresh.

With --metrics (or the metrics_addr config key) a Prometheus endpoint is
served at http://<addr>/metrics for as long as the dashboard runs.

Keyboard controls:
  q   quit

Examples:
  dftcli watch
  dftcli watch --interval 500ms --metrics 127.0.0.1:9464`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := watchInterval
		if interval <= 0 {
			interval = cfg.Interval()
		}
		addr := watchMetrics
		if addr == "" {
			addr = cfg.MetricsAddr
		}

		w := &watcher{m: metrics.New(metrics.DefaultNamespace, nil)}
		if _, err := w.refresh(); err != nil {
			return err
		}

		if addr != "" {
			srv := &http.Server{Addr: addr, Handler: metricsMux(w.m), ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				srv.Shutdown(ctx) //nolint:errcheck
			}()
			logger.Info("serving metrics", zap.String("addr", addr))
		}

		_, err := ui.NewDashboard(interval, w.refresh).Run()
		return err
	},
}

// watcher reloads the ledger on every tick and feeds the dashboard and the
// metrics registry.
type watcher struct {
	mu   sync.Mutex
	m    *metrics.Metrics
	prev ledger.Stats
}

func (w *watcher) refresh() (ui.SupplyView, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := openSession()
	if err != nil {
		return ui.SupplyView{}, err
	}
	st := s.ledger.Stats()

	w.m.Sync(s.ledger)
	w.m.Advance(w.prev, st)
	w.prev = st

	total := s.ledger.TotalSupply()
	v := ui.SupplyView{
		Symbol:      s.symbol(),
		TotalSupply: fmtUnits(total),
		Minted:      fmtUnits(st.Minted),
		Burned:      fmtUnits(st.Burned),
		Fees:        fmtUnits(st.FeesCollected),
		Transfers:   st.Transfers,
	}
	for _, h := range s.ledger.Holders() {
		v.Holders = append(v.Holders, ui.HolderEntry{
			Name:    s.wallets.NameOf(h.Account),
			Address: h.Account.Hex(),
			Balance: fmtUnits(h.Balance),
			Share:   percentOf(h.Balance, total),
		})
	}
	return v, nil
}

func metricsMux(m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	return mux
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "refresh interval (default: watch_interval config)")
	watchCmd.Flags().StringVar(&watchMetrics, "metrics", "", "serve Prometheus metrics on this address")
}
