package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arborview/arbor/pkg/search"
	"github.com/arborview/arbor/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listFlashStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// flashDuration is how long a jumped-to match stays highlighted.
const flashDuration = 1200 * time.Millisecond

// flashClearMsg clears the match highlight. The generation guards against an
// old timer wiping the flash of a newer match.
type flashClearMsg struct {
	gen int
}

// =============================================================================
// ExplorerModel - Interactive Tree Browser
// =============================================================================

// ExplorerModel is the bubbletea model for the explore command. It presents
// the tree as a flat list of visible rows, folding container nodes in place,
// and resolves search queries live as they are typed.
type ExplorerModel struct {
	Title    string
	Tree     *tree.Tree
	Resolver search.Resolver

	children map[string][]string // node ID -> child IDs in document order
	parent   map[string]string
	expanded map[string]bool
	rows     []string // visible node IDs, depth-first

	cursor int
	offset int
	height int
	width  int

	searching bool
	query     string
	match     search.Match
	found     bool

	flashID  string
	flashGen int

	status string
}

// NewExplorerModel creates an explorer over a built tree. The resolver
// should carry the parsed document so JSONPath queries work in the search
// prompt.
func NewExplorerModel(title string, tr *tree.Tree, resolver search.Resolver) ExplorerModel {
	m := ExplorerModel{
		Title:    title,
		Tree:     tr,
		Resolver: resolver,
		children: make(map[string][]string),
		parent:   make(map[string]string),
		expanded: make(map[string]bool),
		height:   15,
	}
	for _, e := range tr.Edges {
		m.children[e.Source] = append(m.children[e.Source], e.Target)
		m.parent[e.Target] = e.Source
	}
	// Open the root so the first screen shows the document's top level.
	if root := tr.Root(); root != nil {
		m.expanded[root.ID] = true
	}
	m.rebuildRows()
	return m
}

func (m ExplorerModel) Init() tea.Cmd {
	return nil
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	case flashClearMsg:
		if msg.gen == m.flashGen {
			m.flashID = ""
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
		m.clampScroll()
	}
	return m, nil
}

// updateBrowse handles keys outside the search prompt.
func (m ExplorerModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.flashID = ""
		m.status = ""
		m.query = ""
		m.found = false
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case "g":
		m.cursor = 0
		m.offset = 0
	case "G":
		m.cursor = len(m.rows) - 1
		m.clampScroll()
	case "enter", " ":
		m.toggle()
	case "E":
		m.setAllExpanded(true)
	case "C":
		m.setAllExpanded(false)
	case "y":
		m.copyPath()
	case "/":
		m.searching = true
		m.query = ""
		m.status = ""
	case "n":
		cmd := m.jumpToMatch()
		return m, cmd
	}
	return m, nil
}

// updateSearch handles keys while the search prompt is open. Every edit
// resolves the query again, so the cursor follows the best match as the
// query grows.
func (m ExplorerModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.query = ""
		m.found = false
		m.flashID = ""
		return m, nil
	case "enter":
		m.searching = false
		if m.found {
			m.status = "match " + m.match.Path
		}
		return m, nil
	case "backspace":
		if m.query != "" {
			runes := []rune(m.query)
			m.query = string(runes[:len(runes)-1])
			cmd := m.resolveQuery()
			return m, cmd
		}
		return m, nil
	default:
		if msg.Type == tea.KeyRunes {
			m.query += string(msg.Runes)
			cmd := m.resolveQuery()
			return m, cmd
		}
	}
	return m, nil
}

func (m ExplorerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore " + m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ fold  / search  n match  y copy path  E/C open/close all  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		id := m.rows[i]
		node, ok := m.Tree.NodeByID(id)
		if !ok {
			continue
		}

		glyph := "  "
		if kids := m.children[id]; len(kids) > 0 {
			glyph = "▸ "
			if m.expanded[id] {
				glyph = "▾ "
			}
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := cursor + strings.Repeat("  ", node.Depth) + glyph + node.Label
		if kids := m.children[id]; len(kids) > 0 {
			line += fmt.Sprintf(" (%d)", len(kids))
		}
		line = truncate(line, m.width)

		switch {
		case id == m.flashID:
			b.WriteString(listFlashStyle.Render(line))
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.footer())

	return b.String()
}

func (m ExplorerModel) footer() string {
	if m.searching {
		line := "/" + m.query + "▌"
		switch {
		case m.found:
			line += "  " + listDimStyle.Render(m.match.Path)
		case strings.TrimSpace(m.query) != "":
			line += "  " + listDimStyle.Render("no match for "+m.match.Query)
		}
		return line
	}

	pos := listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows)))
	if m.status != "" {
		return pos + "  " + listDimStyle.Render(m.status)
	}
	return pos
}

// =============================================================================
// Row Management
// =============================================================================

// rebuildRows recomputes the visible row list after a fold change.
func (m *ExplorerModel) rebuildRows() {
	m.rows = m.rows[:0]
	root := m.Tree.Root()
	if root == nil {
		return
	}
	m.appendVisible(root.ID)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *ExplorerModel) appendVisible(id string) {
	m.rows = append(m.rows, id)
	if !m.expanded[id] {
		return
	}
	for _, child := range m.children[id] {
		m.appendVisible(child)
	}
}

// toggle folds or unfolds the selected container row.
func (m *ExplorerModel) toggle() {
	if len(m.rows) == 0 {
		return
	}
	id := m.rows[m.cursor]
	if len(m.children[id]) == 0 {
		return
	}
	m.expanded[id] = !m.expanded[id]
	m.rebuildRows()
	m.clampScroll()
}

// setAllExpanded opens or closes every container. Opening keeps the
// selection on the same node; closing leaves only the root visible.
func (m *ExplorerModel) setAllExpanded(open bool) {
	var keep string
	if len(m.rows) > 0 {
		keep = m.rows[m.cursor]
	}
	for id := range m.children {
		m.expanded[id] = open
	}
	m.rebuildRows()
	m.cursor = 0
	if open {
		for i, id := range m.rows {
			if id == keep {
				m.cursor = i
				break
			}
		}
	}
	m.centerCursor()
}

// copyPath puts the selected node's path on the system clipboard. Clipboard
// failures surface in the status line rather than ending the session.
func (m *ExplorerModel) copyPath() {
	if len(m.rows) == 0 {
		return
	}
	node, ok := m.Tree.NodeByID(m.rows[m.cursor])
	if !ok {
		return
	}
	if err := clipboard.WriteAll(node.Path); err != nil {
		m.status = "clipboard: " + err.Error()
		return
	}
	m.status = "copied " + node.Path
}

// =============================================================================
// Search
// =============================================================================

// resolveQuery reruns the cascade for the current query text.
func (m *ExplorerModel) resolveQuery() tea.Cmd {
	m.match, m.found = m.Resolver.Resolve(m.query)
	if !m.found {
		m.flashID = ""
		return nil
	}
	return m.jumpToMatch()
}

// jumpToMatch opens every ancestor of the matched node, moves the cursor to
// it, and starts the highlight timer.
func (m *ExplorerModel) jumpToMatch() tea.Cmd {
	if !m.found {
		return nil
	}
	for id := m.parent[m.match.ID]; id != ""; id = m.parent[id] {
		m.expanded[id] = true
	}
	m.rebuildRows()
	for i, id := range m.rows {
		if id == m.match.ID {
			m.cursor = i
			break
		}
	}
	m.centerCursor()

	m.flashID = m.match.ID
	m.flashGen++
	gen := m.flashGen
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{gen: gen}
	})
}

// =============================================================================
// Scrolling
// =============================================================================

func (m *ExplorerModel) centerCursor() {
	m.offset = m.cursor - m.height/2
	m.clampScroll()
}

func (m *ExplorerModel) clampScroll() {
	if m.offset > len(m.rows)-m.height {
		m.offset = len(m.rows) - m.height
	}
	if m.offset < 0 {
		m.offset = 0
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// truncate cuts a line to the terminal width. Styling is applied after
// truncation, so plain rune count is the right measure.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
