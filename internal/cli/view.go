package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
)

// Tree styles
var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeFolderStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	treeFileStyle     = lipgloss.NewStyle().Foreground(colorWhite)
	treeItemStyle     = lipgloss.NewStyle().Foreground(colorGray)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the view command for interactive graph browsing.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [graph.json]",
		Short: "Browse a structural graph in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			model := NewTreeModel(s)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
}

// =============================================================================
// TreeModel - Interactive containment tree browsing
// =============================================================================

// treeRow is one visible line of the tree.
type treeRow struct {
	id       graph.NodeID
	depth    int
	children int
}

// TreeModel is the bubbletea model for browsing a containment tree.
// Folders and files with children can be expanded and collapsed.
type TreeModel struct {
	Store    *graph.Store
	Expanded map[graph.NodeID]bool
	Cursor   int
	Height   int
	Offset   int

	rows []treeRow
}

// NewTreeModel creates a tree model with the root nodes expanded.
func NewTreeModel(s *graph.Store) TreeModel {
	m := TreeModel{
		Store:    s,
		Expanded: make(map[graph.NodeID]bool),
		Height:   20,
	}
	for _, id := range m.roots() {
		m.Expanded[id] = true
	}
	m.rebuildRows()
	return m
}

// roots returns nodes without a parent, in ID order.
func (m TreeModel) roots() []graph.NodeID {
	var roots []graph.NodeID
	for _, id := range m.Store.NodeIDs() {
		if len(m.Store.IncomingEdges(id)) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// rebuildRows flattens the expanded portion of the tree into rows.
func (m *TreeModel) rebuildRows() {
	m.rows = m.rows[:0]
	var walk func(id graph.NodeID, depth int)
	walk = func(id graph.NodeID, depth int) {
		children := m.Store.Children(id)
		m.rows = append(m.rows, treeRow{id: id, depth: depth, children: len(children)})
		if !m.Expanded[id] {
			return
		}
		for _, child := range children {
			walk(child, depth+1)
		}
	}
	for _, id := range m.roots() {
		walk(id, 0)
	}
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(m.rows) > 0 {
				row := m.rows[m.Cursor]
				if row.children > 0 {
					m.Expanded[row.id] = !m.Expanded[row.id]
					m.rebuildRows()
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Workspace Structure"))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render("↑/↓ navigate  ⏎ expand/collapse  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.Offset; i < end; i++ {
		row := m.rows[i]
		data, _ := m.Store.Node(row.id)

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "  "
		if row.children > 0 {
			if m.Expanded[row.id] {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}

		line := cursor + strings.Repeat("  ", row.depth) + marker + data.DisplayName()
		if row.children > 0 {
			line += treeDimStyle.Render(fmt.Sprintf(" (%d)", row.children))
		}

		if i == m.Cursor {
			b.WriteString(treeSelectedStyle.Render(line))
		} else {
			b.WriteString(nodeStyle(data).Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// nodeStyle picks the display style for a node kind.
func nodeStyle(data graph.NodeData) lipgloss.Style {
	switch data.(type) {
	case graph.Folder:
		return treeFolderStyle
	case graph.File:
		return treeFileStyle
	default:
		return treeItemStyle
	}
}
