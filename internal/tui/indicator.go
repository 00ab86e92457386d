package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pullrefresh/internal/refresh"
)

// Spinner phase offsets so the header and footer never spin in lockstep.
const (
	headerTrim = 0
	footerTrim = 2
)

var (
	bandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// rotation glyphs follow the pull progress before the spinner takes over
	rotationFrames = []string{"◜", "◝", "◞", "◟"}
)

// indicatorGlyph is the spinner frame while busy, otherwise a rotation
// proportional to progress.
func indicatorGlyph(snap refresh.Snapshot, frame, trim int) string {
	if snap.Spinning {
		return spinnerFrames[(frame+trim)%len(spinnerFrames)]
	}
	steps := int(snap.Progress * float64(2*len(rotationFrames)))
	return rotationFrames[(steps+trim)%len(rotationFrames)]
}

// renderIndicator is the single line caption of a band.
func renderIndicator(snap refresh.Snapshot, width, frame, trim int) string {
	text := indicatorGlyph(snap, frame, trim) + " " + snap.Label
	text = runewidth.Truncate(text, max(width, 0), "…")
	return lipgloss.PlaceHorizontal(max(width, 0), lipgloss.Center, bandStyle.Render(text))
}

// renderBand returns rows lines with the indicator on the middle line.
func renderBand(snap refresh.Snapshot, width, rows, frame, trim int) []string {
	if rows <= 0 {
		return nil
	}
	blank := strings.Repeat(" ", max(width, 0))
	band := make([]string, rows)
	for i := range band {
		band[i] = blank
	}
	band[rows/2] = renderIndicator(snap, width, frame, trim)
	return band
}
