package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/blastr/internal/diff"
	"github.com/sprite-ai/blastr/internal/model"
)

// renderedLine is a single source line of the selected symbol, ready for
// display.
type renderedLine struct {
	Num     uint32 // absolute 0-indexed line number in the file
	Content string
	Tokens  []diff.Token // nil = no highlighting
}

// renderNode produces renderedLines for a symbol's definition body.
func renderNode(node *model.HierarchyItem) []renderedLine {
	highlighted := diff.HighlightSource(node.Context.Range.Path, node.Context.SourceCode)

	start := node.Context.Range.Start.Line
	lines := make([]renderedLine, 0, len(highlighted))
	for i, hl := range highlighted {
		lines = append(lines, renderedLine{
			Num:     start + uint32(i),
			Content: hl.Plain(),
			Tokens:  hl.Tokens,
		})
	}
	return lines
}

func (m Model) renderNodeList(width, height int) string {
	var b strings.Builder

	for i, node := range m.nodes {
		label := node.String()
		maxLabel := width - 8
		if maxLabel > 0 && len(label) > maxLabel {
			label = "…" + label[len(label)-maxLabel+1:]
		}

		callers := len(m.graph.Referrers(node.Key()))
		line := fmt.Sprintf("%-*s ←%d", maxLabel, label, callers)

		var style lipgloss.Style
		if i == m.nodeIndex {
			style = nodeItemSelectedStyle
		} else if callers == 0 {
			style = nodeSeedStyle
		} else {
			style = nodeItemStyle
		}

		b.WriteString(style.Width(width - 4).Render(line))
		if i < len(m.nodes)-1 {
			b.WriteByte('\n')
		}
	}

	innerHeight := height - 2 // borders
	return nodeListStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderSourceView(width, height int) string {
	innerHeight := height - 2
	node := m.selected()
	if node == nil {
		return sourceViewStyle.Width(width).Height(innerHeight).Render("No symbols in blast radius")
	}

	header := sourceHeaderStyle.Render(fmt.Sprintf("%s %s  %s",
		nodeKindStyle.Render(node.Kind), node.Name, node.Context.Range.Path))

	referrers := m.graph.Referrers(node.Key())
	var refLine string
	if len(referrers) > 0 {
		names := make([]string, 0, len(referrers))
		for _, r := range referrers {
			names = append(names, r.String())
		}
		refLine = referrerStyle.Render("referenced by: " + strings.Join(names, ", "))
	} else {
		refLine = helpBarStyle.Render("no callers in workspace")
	}

	visibleLines := innerHeight - 3 // header + referrer line
	if visibleLines < 1 {
		visibleLines = 1
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(refLine)
	b.WriteByte('\n')

	end := m.scrollOffset + visibleLines
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(styleLine(m.lines[i], width-8))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return sourceViewStyle.Width(width).Height(innerHeight).Render(b.String())
}

// styleLine renders one source line with its number and syntax colors.
func styleLine(rl renderedLine, width int) string {
	num := lineNumberStyle.Render(fmt.Sprintf("%d", rl.Num))

	if len(rl.Tokens) == 0 {
		return num + " " + truncate(rl.Content, width)
	}

	var b strings.Builder
	remaining := width
	for _, tok := range rl.Tokens {
		text := tok.Text
		if len(text) > remaining {
			text = truncate(text, remaining)
		}
		if tok.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(text))
		} else {
			b.WriteString(text)
		}
		remaining -= len(text)
		if remaining <= 0 {
			break
		}
	}
	return num + " " + b.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return s[:max-1] + "…"
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf(" Symbol %d/%d", m.nodeIndex+1, len(m.nodes))
	if len(m.lines) > 0 {
		left += fmt.Sprintf("  Line %d/%d", m.scrollOffset+1, len(m.lines))
	}

	right := fmt.Sprintf("%d symbols  %d edges  ? help ", m.graph.NodeCount(), m.graph.EdgeCount())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(sourceHeaderStyle.Render("blastr — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k", "Scroll up"},
		{"↓/j", "Scroll down"},
		{"n/Tab", "Next symbol"},
		{"N/S-Tab", "Previous symbol"},
		{"Enter", "Jump to first caller"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}
