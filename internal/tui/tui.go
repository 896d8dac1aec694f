// Package tui implements the Bubble Tea browser for a blast-radius graph.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/blastr/internal/analysis"
	"github.com/sprite-ai/blastr/internal/model"
	"github.com/sprite-ai/blastr/internal/report"
)

// Model is the top-level Bubble Tea model for blastr.
type Model struct {
	graph *analysis.Graph
	nodes []*model.HierarchyItem

	// UI state
	width  int
	height int

	nodeIndex    int // currently selected symbol
	scrollOffset int // scroll position within the source view

	// Rendered lines for the current symbol
	lines []renderedLine

	showHelp bool
}

// New creates a TUI model from a computed graph. Nodes are presented in
// callee-before-caller order where the graph allows it.
func New(g *analysis.Graph) Model {
	m := Model{
		graph: g,
		nodes: report.OrderNodes(g),
	}
	m.updateLines()
	return m
}

func (m *Model) updateLines() {
	if len(m.nodes) == 0 {
		m.lines = nil
		return
	}
	m.lines = renderNode(m.nodes[m.nodeIndex])
}

func (m *Model) selected() *model.HierarchyItem {
	if len(m.nodes) == 0 {
		return nil
	}
	return m.nodes[m.nodeIndex]
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			if m.scrollOffset < len(m.lines)-1 {
				m.scrollOffset++
			}

		case key.Matches(msg, keys.Up):
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}

		case key.Matches(msg, keys.NextNode):
			if m.nodeIndex < len(m.nodes)-1 {
				m.nodeIndex++
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.PrevNode):
			if m.nodeIndex > 0 {
				m.nodeIndex--
				m.scrollOffset = 0
				m.updateLines()
			}

		case key.Matches(msg, keys.Referrer):
			m.jumpToFirstReferrer()

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

// jumpToFirstReferrer selects the first symbol whose body references the
// current one.
func (m *Model) jumpToFirstReferrer() {
	current := m.selected()
	if current == nil {
		return
	}
	referrers := m.graph.Referrers(current.Key())
	if len(referrers) == 0 {
		return
	}
	target := referrers[0].Key()
	for i, node := range m.nodes {
		if node.Key() == target {
			m.nodeIndex = i
			m.scrollOffset = 0
			m.updateLines()
			return
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	nodeListWidth := m.nodeListWidth()
	sourceWidth := m.width - nodeListWidth - 1

	nodeList := m.renderNodeList(nodeListWidth, m.height-2)
	sourceView := m.renderSourceView(sourceWidth, m.height-2)

	main := lipgloss.JoinHorizontal(lipgloss.Top, nodeList, " ", sourceView)
	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, main, statusBar)
}

func (m Model) nodeListWidth() int {
	maxLen := 20
	for _, node := range m.nodes {
		if l := len(node.String()); l > maxLen {
			maxLen = l
		}
	}
	w := maxLen + 8 // padding + referrer count
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Run starts the TUI application.
func Run(g *analysis.Graph) error {
	m := New(g)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
