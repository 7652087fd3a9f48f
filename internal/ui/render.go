package ui

import (
	"fmt"
	"strings"
)

// ProgressBar renders a Unicode bar with a done/total tail.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %d/%d", bar, done, total)
}

// Panel frames the given lines with the current theme's border.
func Panel(lines []string) string {
	return current.Border.Render(strings.Join(lines, "\n"))
}
