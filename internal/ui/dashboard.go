package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// HolderEntry is one row of the holder dashboard.
type HolderEntry struct {
	Name    string
	Address string
	Balance string
	Share   string // percentage of total supply
}

// SupplyView is the data the dashboard refreshes on every tick.
type SupplyView struct {
	Symbol      string
	TotalSupply string
	Minted      string
	Burned      string
	Fees        string
	Transfers   uint64
	Holders     []HolderEntry
}

// dashboardModel is the Bubble Tea model for the live supply dashboard.
type dashboardModel struct {
	view       SupplyView
	loaded     bool
	lastUpdate time.Time
	interval   time.Duration
	quitting   bool
	fetcher    func() (SupplyView, error)
	err        string
}

type tickMsg time.Time
type supplyFetchedMsg SupplyView
type supplyErrorMsg string

// NewDashboard creates a Bubble Tea program that re-reads the ledger every
// interval and shows supply counters and the holder table.
func NewDashboard(interval time.Duration, fetcher func() (SupplyView, error)) *tea.Program {
	return tea.NewProgram(newDashboardModel(interval, fetcher))
}

func newDashboardModel(interval time.Duration, fetcher func() (SupplyView, error)) dashboardModel {
	return dashboardModel{
		interval: interval,
		fetcher:  fetcher,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tick(m.interval))
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), tick(m.interval))

	case supplyFetchedMsg:
		m.view = SupplyView(msg)
		m.loaded = true
		m.lastUpdate = time.Now()
		m.err = ""

	case supplyErrorMsg:
		m.err = string(msg)
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render("🔥 Live Supply Dashboard") + "\n")
	sb.WriteString(StyleMeta.Render(fmt.Sprintf("Updated: %s · q to quit\n\n", m.lastUpdate.Format("15:04:05"))))

	if m.err != "" {
		sb.WriteString(Err(m.err) + "\n")
	}

	if !m.loaded {
		sb.WriteString(StyleMeta.Render("Loading...") + "\n")
		return sb.String()
	}

	v := m.view
	sb.WriteString(KeyValueBlock("", [][2]string{
		{"Total supply", v.TotalSupply + " " + v.Symbol},
		{"Minted", v.Minted + " " + v.Symbol},
		{"Burned", v.Burned + " " + v.Symbol},
		{"Fees collected", v.Fees + " " + v.Symbol},
		{"Transfers", fmt.Sprintf("%d", v.Transfers)},
	}))
	sb.WriteString("\n\n")

	if len(v.Holders) == 0 {
		sb.WriteString(StyleMeta.Render("No holders.") + "\n")
		return sb.String()
	}

	t := NewTable([]Column{
		{Title: "Wallet", Width: 14},
		{Title: "Address", Width: 14},
		{Title: "Balance", Width: 26, Right: true},
		{Title: "Share", Width: 9, Right: true},
	})
	for _, h := range v.Holders {
		t.AddRow(Row{h.Name, TruncateAddr(h.Address), h.Balance, h.Share})
	}
	sb.WriteString(t.Render())

	return sb.String()
}

func (m dashboardModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		v, err := m.fetcher()
		if err != nil {
			return supplyErrorMsg(err.Error())
		}
		return supplyFetchedMsg(v)
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
