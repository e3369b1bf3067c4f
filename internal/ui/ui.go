package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Out is where notices and tables are printed.
var Out io.Writer = os.Stdout

const Tower = "\u265C" // ♜

// SetColor turns colour output on or off.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Banner prints the towergraph banner.
func Banner(subtitle string) {
	fmt.Fprintf(Out, "%s %s: %s\n\n", Tower, Brand.Sprint("towergraph"), subtitle)
}

// Notice levels, shared with the canvas status line.
type Level int

const (
	LevelInfo Level = iota
	LevelGood
	LevelWarn
	LevelError
)

// Notice prints a one-line message prefixed by its level icon.
func Notice(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	switch level {
	case LevelGood:
		fmt.Fprintf(Out, "  %s %s\n", StatusIcon(true), msg)
	case LevelWarn:
		fmt.Fprintf(Out, "  %s %s\n", WarnIcon(), Warn.Sprint(msg))
	case LevelError:
		fmt.Fprintf(Out, "  %s %s\n", StatusIcon(false), Bad.Sprint(msg))
	default:
		fmt.Fprintf(Out, "  %s\n", Info.Sprint(msg))
	}
}

// Table prints a simple aligned table.
func Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Print header
	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(Out, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(Out, strings.TrimRight(sepLine, " "))

	// Print rows
	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(Out, strings.TrimRight(line, " "))
	}
}

// Tree prints a root with labelled branches of leaves.
func Tree(root string, branches []string, leaves [][]string) {
	fmt.Fprintln(Out, Brand.Sprint(root))
	for i, b := range branches {
		last := i == len(branches)-1
		joint, pad := "├── ", "│   "
		if last {
			joint, pad = "└── ", "    "
		}
		fmt.Fprintln(Out, joint+Subtle.Sprint(b))
		if i >= len(leaves) || len(leaves[i]) == 0 {
			fmt.Fprintln(Out, pad+"└── "+Subtle.Sprint("(none)"))
			continue
		}
		for j, leaf := range leaves[i] {
			lj := "├── "
			if j == len(leaves[i])-1 {
				lj = "└── "
			}
			fmt.Fprintln(Out, pad+lj+leaf)
		}
	}
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// WarnIcon returns a warning icon.
func WarnIcon() string {
	return Warn.Sprint("⚠")
}
