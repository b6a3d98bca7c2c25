// Package ui renders lumen's terminal output with lipgloss and runs the
// interactive pickers with bubbletea.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // confirmations
	ColorWarning   = lipgloss.Color("#FFB800") // prompts, pending fees
	ColorError     = lipgloss.Color("#FF4444") // errors, destructive prompts
	ColorAddress   = lipgloss.Color("#00B4D8") // addresses, hashes, selectors
	ColorValue     = lipgloss.Color("#FFFFFF") // amounts, names
	ColorMeta      = lipgloss.Color("#555555") // timestamps, hints
	ColorBorder    = lipgloss.Color("#3D2F5B")
	ColorChain     = lipgloss.Color("#F4C95D") // chain names, lumen gold
	ColorHighlight = lipgloss.Color("#E07A5F") // headers, selected rows
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

	// StylePost frames a lumen body.
	StylePost = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorChain).
			PaddingLeft(1)
)

// Banner returns the lumen banner.
func Banner() string {
	art := `
  ╦  ╦ ╦╔╦╗╔═╗╔╗╔
  ║  ║ ║║║║║╣ ║║║
  ╩═╝╚═╝╩ ╩╚═╝╝╚╝`
	tagline := StyleMeta.Render("  chapters, lumens and LUX from the terminal")
	return StyleChain.Render(art) + "\n" + tagline + "\n"
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

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// Post renders a lumen body with its header line. Long bodies are cut to
// limit runes with an ellipsis; limit <= 0 keeps everything.
func Post(header, body string, limit int) string {
	r := []rune(body)
	if limit > 0 && len(r) > limit {
		body = string(r[:limit]) + "…"
	}
	return StyleMeta.Render(header) + "\n" + StylePost.Render(body)
}
