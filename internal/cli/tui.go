package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	gfio "github.com/matzehuels/graphfile/pkg/io"
	"github.com/matzehuels/graphfile/pkg/project"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// GraphListModel - Interactive graph selection
// =============================================================================

// GraphListModel is the bubbletea model for picking one graph of a project.
type GraphListModel struct {
	Project  *project.Project
	Cursor   int
	Selected *project.NodeGraph
	Height   int
	Offset   int
}

// NewGraphListModel creates a graph list with the cursor on the main graph.
func NewGraphListModel(p *project.Project) GraphListModel {
	m := GraphListModel{Project: p, Height: 15}
	for i, g := range p.Graphs {
		if g.Metadata.ID == p.Metadata.MainGraphID {
			m.Cursor = i
		}
	}
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m GraphListModel) Init() tea.Cmd {
	return nil
}

func (m GraphListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Project.Graphs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Project.Graphs) == 0 {
				return m, nil
			}
			m.Selected = m.Project.Graphs[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m GraphListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Project.Metadata.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Project.Graphs))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		g := m.Project.Graphs[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		isMain := ""
		if g.Metadata.ID == m.Project.Metadata.MainGraphID {
			isMain = "✓"
		}
		rows = append(rows, []string{
			cursor,
			g.Metadata.Name,
			g.Metadata.ID,
			strconv.Itoa(len(g.Nodes)),
			strconv.Itoa(len(g.Connections)),
			isMain,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Graph", "ID", "Nodes", "Connections", "Main").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 2 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Project.Graphs))))

	return b.String()
}

// =============================================================================
// browse command
// =============================================================================

// browseCommand creates the browse command, which lets the user pick a
// project graph and prints its nodes.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <project>",
		Short: "Pick a project graph interactively and list its nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context, path string) error {
	p, _, err := gfio.ImportProject(path)
	if err != nil {
		return err
	}
	if len(p.Graphs) == 0 {
		printInfo(c.out, "Project %s has no graphs", path)
		return nil
	}

	final, err := tea.NewProgram(NewGraphListModel(p), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	m, ok := final.(GraphListModel)
	if !ok || m.Selected == nil {
		return nil
	}

	g := m.Selected
	fmt.Fprintln(c.out, StyleTitle.Render(g.Metadata.Name))
	printGraphSummary(c.out, g)
	printNodes(c.out, g)
	printNextStep(c.out, "Render it", fmt.Sprintf("%s render %s --graph %s", appName, path, g.Metadata.ID))
	return nil
}
