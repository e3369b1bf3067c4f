// Package theme holds the styles the terminal canvas draws with. A Theme is
// built once at startup and handed to the renderer.
package theme

import "github.com/gdamore/tcell/v2"

// Theme is the full set of canvas styles and glyphs.
type Theme struct {
	Background   tcell.Style
	Grid         tcell.Style
	Node         tcell.Style
	NodeSelected tcell.Style
	InPoint      tcell.Style
	OutPoint     tcell.Style
	Armed        tcell.Style
	Connection   tcell.Style
	Pending      tcell.Style
	Handle       tcell.Style
	Toolbar      tcell.Style
	Button       tcell.Style
	Menu         tcell.Style
	Info         tcell.Style
	Warn         tcell.Style
	Error        tcell.Style
	Good         tcell.Style

	GridRune   rune
	CurveRune  rune
	HandleRune rune
	InRune     rune
	OutRune    rune
}

// Default is the colour theme.
func Default() *Theme {
	base := tcell.StyleDefault.Background(tcell.ColorReset)
	return &Theme{
		Background:   base,
		Grid:         base.Foreground(tcell.ColorDarkSlateGray),
		Node:         base.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
		NodeSelected: base.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal).Bold(true),
		InPoint:      base.Foreground(tcell.ColorGreen).Bold(true),
		OutPoint:     base.Foreground(tcell.ColorOrange).Bold(true),
		Armed:        base.Foreground(tcell.ColorYellow).Bold(true).Reverse(true),
		Connection:   base.Foreground(tcell.ColorSilver),
		Pending:      base.Foreground(tcell.ColorYellow),
		Handle:       base.Foreground(tcell.ColorRed).Bold(true),
		Toolbar:      base.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
		Button:       base.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen),
		Menu:         base.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
		Info:         base.Foreground(tcell.ColorDarkCyan),
		Warn:         base.Foreground(tcell.ColorYellow),
		Error:        base.Foreground(tcell.ColorRed),
		Good:         base.Foreground(tcell.ColorGreen),

		GridRune:   '·',
		CurveRune:  '•',
		HandleRune: '×',
		InRune:     '▶',
		OutRune:    '▶',
	}
}

// Mono avoids colour for terminals or users that do not want it.
func Mono() *Theme {
	base := tcell.StyleDefault
	return &Theme{
		Background:   base,
		Grid:         base.Dim(true),
		Node:         base.Reverse(true),
		NodeSelected: base.Reverse(true).Bold(true),
		InPoint:      base.Bold(true),
		OutPoint:     base.Bold(true),
		Armed:        base.Bold(true).Underline(true),
		Connection:   base,
		Pending:      base.Dim(true),
		Handle:       base.Bold(true),
		Toolbar:      base.Reverse(true),
		Button:       base.Bold(true),
		Menu:         base.Reverse(true),
		Info:         base,
		Warn:         base.Bold(true),
		Error:        base.Bold(true).Underline(true),
		Good:         base,

		GridRune:   '.',
		CurveRune:  '*',
		HandleRune: 'x',
		InRune:     '>',
		OutRune:    '>',
	}
}

// For picks Default or Mono.
func For(color bool) *Theme {
	if color {
		return Default()
	}
	return Mono()
}
