package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives status lines. Tests swap it out.
var stdout io.Writer = os.Stdout

// Terminal palette, matched to the mindmap's edge and text colours.
var (
	colorAccent = lipgloss.Color("#1877f2")
	colorText   = lipgloss.AdaptiveColor{Light: "#1c1e21", Dark: "#f0f2f5"}
	colorMuted  = lipgloss.Color("#606770")
	colorFaint  = lipgloss.Color("#8a8d91")
	colorOK     = lipgloss.Color("#42b72a")
	colorWarn   = lipgloss.Color("#f7b928")
	colorFail   = lipgloss.Color("#e41e3f")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	styleValue   = lipgloss.NewStyle().Foreground(colorText)
	styleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	styleLink    = lipgloss.NewStyle().Foreground(colorAccent).Underline(true)
	styleLabel   = lipgloss.NewStyle().Foreground(colorMuted)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand = lipgloss.NewStyle().Foreground(colorAccent)
	styleCached  = lipgloss.NewStyle().Foreground(colorOK)
	styleFresh   = lipgloss.NewStyle().Foreground(colorMuted)

	markOK   = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
	markFail = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	markWarn = lipgloss.NewStyle().Foreground(colorWarn).Render("!")
	markInfo = lipgloss.NewStyle().Foreground(colorMuted).Render("›")
	arrow    = styleDim.Render("→")
)

func status(mark, format string, args ...any) {
	fmt.Fprintln(stdout, mark+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { status(markOK, format, args...) }
func printError(format string, args ...any)   { status(markFail, format, args...) }
func printInfo(format string, args ...any)    { status(markInfo, format, args...) }

func printWarning(format string, args ...any) {
	status(markWarn, "%s", lipgloss.NewStyle().Foreground(colorWarn).Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+arrow+" "+styleValue.Render(path))
}

// printStats prints e.g. "3 nodes · 2 edges · cached".
func printStats(nodes, edges int, cached bool) {
	var parts []string
	if nodes > 0 {
		parts = append(parts, styleDim.Render(fmt.Sprintf("%d nodes", nodes)))
	}
	if edges > 0 {
		parts = append(parts, styleDim.Render(fmt.Sprintf("%d edges", edges)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleFresh.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, styleDim.Render(" · ")))
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, styleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
