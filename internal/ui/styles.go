package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green: credits, success
	ColorWarning   = lipgloss.Color("#FFB800") // yellow: fees, warning
	ColorError     = lipgloss.Color("#FF4444") // red: burns, errors
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan: addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold: token amounts
	ColorMeta      = lipgloss.Color("#555555") // dim gray: metadata
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue: UI chrome
	ColorAccent    = lipgloss.Color("#9B5DE5") // purple: token symbol, titles
	ColorHighlight = lipgloss.Color("#F15BB5") // pink: headers, selected rows
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorAddress).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)
)

// Banner returns the dftcli ASCII banner.
func Banner() string {
	art := `
  ██████╗ ███████╗████████╗ ██████╗██╗     ██╗
  ██╔══██╗██╔════╝╚══██╔══╝██╔════╝██║     ██║
  ██║  ██║█████╗     ██║   ██║     ██║     ██║
  ██║  ██║██╔══╝     ██║   ██║     ██║     ██║
  ██████╔╝██║        ██║   ╚██████╗███████╗██║
  ╚═════╝ ╚═╝        ╚═╝    ╚═════╝╚══════╝╚═╝`

	tagline := StyleMeta.Render("     Deflationary token ledger  🔥  v1.0.0")
	features := StyleMeta.Render("  ✦ fee + burn on every transfer  ✦ owner mint  ✦ ERC-20 ABI")

	return StyleAccent.Render(art) + "\n" + tagline + "\n" + features + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a suggestion for what to run next.
func Hint(msg string) string { return StyleMeta.Render("💡 " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// Amount formats a token amount followed by its symbol.
func Amount(v, symbol string) string {
	return StyleValue.Render(v) + " " + StyleAccent.Render(symbol)
}

// Burned formats a burned amount.
func Burned(v string) string { return StyleError.Render("🔥 " + v) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
