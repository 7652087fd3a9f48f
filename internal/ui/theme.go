package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the Lip Gloss styles and symbols every renderer pulls from.
type Theme struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Pending  lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Help     lipgloss.Style
	Border   lipgloss.Style

	BoxChecked   string
	BoxUnchecked string
	SymDone      string
	SymPending   string
	SymFail      string
}

var current = classic()

// SetTheme selects the active palette by name; unknown names fall back to
// classic.
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = neon()
	case "mono":
		current = mono()
	default:
		current = classic()
	}
}

func Current() Theme { return current }

func classic() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),

		BoxChecked:   "☑",
		BoxUnchecked: "☐",
		SymDone:      "✔",
		SymPending:   "•",
		SymFail:      "✖",
	}
}

func neon() Theme {
	t := classic()
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	t.BoxChecked = "◼"
	t.BoxUnchecked = "◻"
	return t
}

func mono() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title:    plain,
		Muted:    plain,
		Accent:   plain,
		Success:  plain,
		Pending:  plain,
		Error:    plain,
		Selected: plain,
		Done:     plain,
		Help:     plain,
		Border:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),

		BoxChecked:   "[x]",
		BoxUnchecked: "[ ]",
		SymDone:      "x",
		SymPending:   "-",
		SymFail:      "!",
	}
}

// OK prints a success line to stdout.
func OK(msg string) {
	fmt.Println(current.Success.Render(current.SymDone + " " + msg))
}

// Fail prints an error line to stderr.
func Fail(msg string) {
	fmt.Fprintln(os.Stderr, current.Error.Render(current.SymFail+" "+msg))
}
