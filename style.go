package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/technicallyty/poolstat/present"
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 0, 1, 0)
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	doneStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))

	// Styles for the dashboard rows
	toneStyles = map[present.Tone]lipgloss.Style{
		present.ToneRequests: lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		present.ToneTiming:   lipgloss.NewStyle().Foreground(lipgloss.Color("201")), // magenta
		present.ToneTotals:   lipgloss.NewStyle().Foreground(lipgloss.Color("255")), // white
		present.TonePending:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")), // yellow
		present.ToneQueued:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // bright blue
		present.ToneFailures: lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // bright red
		present.ToneHeader:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		present.ToneField:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}

	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			Width(60)
)
