package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Mohsinsiddi/txforge/internal/contract"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: success, read results
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: send, balance warnings
	ColorError     = lipgloss.Color("#FF4444") // red: failures
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF")
	ColorMeta      = lipgloss.Color("#555555")
	ColorBorder    = lipgloss.Color("#1E3A5F")
	ColorChain     = lipgloss.Color("#9B5DE5") // purple: chain and function names
	ColorHighlight = lipgloss.Color("#F15BB5")
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleChain   = lipgloss.NewStyle().Foreground(ColorChain).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorChain).
			Bold(true).
			MarginBottom(1)

	styleBadge = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#000000"))
)

// Banner returns the one-line txforge header.
func Banner() string {
	return StyleChain.Render("txforge") + StyleMeta.Render("  read · simulate · send contract functions")
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Addr formats an address or hash.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ChainName formats a chain name.
func ChainName(c string) string { return StyleChain.Render(c) }

// MutabilityBadge renders d's mutability. Read-only functions get the green
// badge; payable ones the warning color.
func MutabilityBadge(d *contract.Descriptor) string {
	switch {
	case d.IsReadOnly():
		return styleBadge.Background(ColorSuccess).Render("READ-ONLY · " + string(d.Mutability))
	case d.IsPayable():
		return styleBadge.Background(ColorWarning).Render("PAYABLE")
	default:
		return styleBadge.Background(ColorChain).Render("STATE-CHANGING")
	}
}

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
