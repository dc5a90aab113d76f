package ui

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Mohsinsiddi/txforge/internal/chain"
)

type gasPriceMsg struct {
	price *big.Int
	at    time.Time
}

// GasView is a Bubble Tea model showing a live gas price fed from a
// channel, typically engine.GasWatcher.Updates.
type GasView struct {
	network  string
	interval time.Duration
	updates  <-chan *big.Int
	price    *big.Int
	at       time.Time
	history  []*big.Int
	quitting bool
}

const gasHistory = 10

// NewGasView creates the live view.
func NewGasView(network string, interval time.Duration, updates <-chan *big.Int) GasView {
	return GasView{network: network, interval: interval, updates: updates}
}

func (m GasView) Init() tea.Cmd { return m.wait() }

func (m GasView) wait() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return tea.Quit()
		}
		return gasPriceMsg{price: p, at: time.Now()}
	}
}

func (m GasView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.quitting = true
			return m, tea.Quit
		}
	case gasPriceMsg:
		m.price, m.at = msg.price, msg.at
		m.history = append(m.history, msg.price)
		if len(m.history) > gasHistory {
			m.history = m.history[len(m.history)-gasHistory:]
		}
		return m, m.wait()
	}
	return m, nil
}

func (m GasView) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render("⛽ Gas · "+m.network) + "\n")
	if m.price == nil {
		sb.WriteString(Meta("Fetching gas price...") + "\n")
	} else {
		sb.WriteString(Val(chain.FormatGwei(m.price)+" gwei") + trend(m.history) + "\n")
		sb.WriteString(Meta(fmt.Sprintf("Updated %s · refresh every %s", m.at.Format("15:04:05"), m.interval)) + "\n")
	}
	sb.WriteString("\n" + Meta("q to quit"))
	return StyleBorder.Render(sb.String()) + "\n"
}

// trend compares the last two prices.
func trend(h []*big.Int) string {
	if len(h) < 2 {
		return ""
	}
	switch h[len(h)-1].Cmp(h[len(h)-2]) {
	case 1:
		return " " + StyleError.Render("▲")
	case -1:
		return " " + StyleSuccess.Render("▼")
	}
	return " " + Meta("=")
}

// RunGasView blocks until the user quits or updates is closed.
func RunGasView(network string, interval time.Duration, updates <-chan *big.Int) error {
	_, err := tea.NewProgram(NewGasView(network, interval, updates)).Run()
	return err
}
