package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/technicallyty/poolstat/mempool"
	"github.com/technicallyty/poolstat/present"
	"github.com/technicallyty/poolstat/stats"
)

type statsMsg struct {
	snap    stats.Snapshot
	elapsed time.Duration
}

type doneMsg struct{}

type Model struct {
	name     string
	snap     stats.Snapshot
	elapsed  time.Duration
	viewport viewport.Model
	ready    bool
	done     bool
	content  string // Cache content to avoid resetting viewport
	cancel   context.CancelFunc
}

func NewModel(endpoint string, cancel context.CancelFunc) *Model {
	return &Model{
		name:   fmt.Sprintf("txpool_content - %s", endpoint),
		cancel: cancel,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg: // window resizing
		headerHeight := 4 // Title + help text
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		m.content = ""
		m.updateContent()
	case tea.KeyMsg: // handles keypress
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "up", "k":
			m.viewport.ScrollUp(1)
		case "down", "j":
			m.viewport.ScrollDown(1)
		case "pgup", "b":
			m.viewport.HalfPageUp()
		case "pgdown", "f":
			m.viewport.HalfPageDown()
		}
	case statsMsg: // new snapshot from the poller
		m.snap = msg.snap
		m.elapsed = msg.elapsed
		m.updateContent()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) updateContent() {
	if !m.ready {
		return
	}

	// Calculate boxes per row based on viewport width
	const boxWidth = 62
	viewportWidth := m.viewport.Width
	if viewportWidth < boxWidth {
		viewportWidth = boxWidth
	}
	boxesPerRow := viewportWidth / boxWidth

	allRows := []string{
		sectionTitleStyle.Render(m.name),
		renderRows(present.Rows(m.snap, m.elapsed)),
		"",
	}

	displays := poolDisplays(m.snap.Pools)
	for i := 0; i < len(displays); i += boxesPerRow {
		end := min(i+boxesPerRow, len(displays))
		allRows = append(allRows, lipgloss.JoinHorizontal(lipgloss.Top, displays[i:end]...))
	}

	newContent := lipgloss.JoinVertical(lipgloss.Left, allRows...)

	// Only update if content changed
	if newContent != m.content {
		m.content = newContent
		m.viewport.SetContent(m.content)
	}
}

func renderRows(rows []present.Row) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, toneStyles[row.Tone].Render(row.String()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	// Header
	header := titleStyle.Render("Live TXPool Content Stats") + "\n\n"

	// Footer
	footer := helpStyle.Render("↑/↓: scroll • PgUp/PgDn: half page • q: quit")
	if m.done {
		footer = doneStyle.Render("Completed stats collection!")
	}

	return header + m.viewport.View() + "\n" + footer
}

// poolDisplays renders one box per category with the lowest-gas transactions
// of the latest response.
func poolDisplays(pools map[mempool.Category][]mempool.TxSummary) []string {
	const maxTxsPerBox = 8 // Leave 2 lines for header and separator

	displays := make([]string, 0, len(mempool.Categories))
	for _, category := range mempool.Categories {
		txs := pools[category]

		var lines []string
		lines = append(lines, fmt.Sprintf("Pool: %s (%d txs)", category, len(txs)))
		lines = append(lines, strings.Repeat("-", 50))

		displayTxs := txs
		if len(txs) > maxTxsPerBox {
			displayTxs = txs[:maxTxsPerBox]
		}

		style := pendingStyle
		if category == mempool.CategoryQueued {
			style = queuedStyle
		}
		for _, tx := range displayTxs {
			line := fmt.Sprintf("%s | N:%d | G:%s",
				shortenHash(tx.Hash.Hex()), tx.Nonce, formatGas(tx.Gas))
			lines = append(lines, style.Render(line))
		}

		// Fill remaining lines to maintain consistent box height
		for len(lines) < 10 {
			lines = append(lines, "")
		}

		displays = append(displays, boxStyle.Render(strings.Join(lines, "\n")))
	}
	return displays
}

func shortenHash(hash string) string {
	if len(hash) <= 10 {
		return hash
	}
	return hash[:6] + "..." + hash[len(hash)-4:]
}

func formatGas(gas uint64) string {
	if gas >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(gas)/1000000)
	} else if gas >= 1000 {
		return fmt.Sprintf("%.1fK", float64(gas)/1000)
	}
	return fmt.Sprintf("%d", gas)
}
