package cli

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphfile/pkg/project"
	"github.com/matzehuels/graphfile/pkg/serialization"
)

// inspectCommand creates the inspect command, which reports what a file is
// and what it holds.
func (c *CLI) inspectCommand() *cobra.Command {
	var nodes bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show a file's document kind, schema version and contents",
		Long: `Inspect detects whether a file is a project, a standalone graph or a
dataset collection, reports the schema version it was written in and
summarizes its contents. Files in older versions are flagged for migration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadDocument(args[0])
			if err != nil {
				return err
			}
			c.printDocument(c.out, doc, nodes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&nodes, "nodes", false, "list the nodes of every graph")

	return cmd
}

func (c *CLI) printDocument(w io.Writer, doc *document, nodes bool) {
	fmt.Fprintln(w, StyleTitle.Render(doc.Path))
	printKeyValue(w, "Kind", string(doc.Kind))
	printKeyValue(w, "Version", doc.Version)
	if len(doc.Failures) > 0 {
		tried := make([]string, len(doc.Failures))
		for i, f := range doc.Failures {
			tried[i] = fmt.Sprintf("%s (%s)", f.Version, f.Kind)
		}
		printKeyValue(w, "Rejected by", strings.Join(tried, ", "))
	}

	switch doc.Kind {
	case serialization.KindProject:
		printProject(w, doc.Project, doc.Attached, nodes)
	case serialization.KindGraph:
		printGraphSummary(w, doc.Graph)
		if nodes {
			printNodes(w, doc.Graph)
		}
	case serialization.KindDatasets:
		printKeyValue(w, "Datasets", strconv.Itoa(len(doc.Datasets)))
		printDatasets(w, doc.Datasets)
	}

	if current := currentVersion(doc.Kind); doc.Version != current {
		fmt.Fprintln(w)
		printWarning(w, "Written in %s; the current %s schema is %s", doc.Version, doc.Kind, current)
		printNextStep(w, "Upgrade it", appName+" migrate "+doc.Path)
	}
}

func printProject(w io.Writer, p *project.Project, attached serialization.AttachedData, nodes bool) {
	printKeyValue(w, "ID", p.Metadata.ID)
	printKeyValue(w, "Title", p.Metadata.Title)
	if p.Metadata.Description != "" {
		printKeyValue(w, "Description", p.Metadata.Description)
	}
	printKeyValue(w, "Main graph", p.Metadata.MainGraphID)
	printKeyValue(w, "Attached", attachedSummary(attached))

	rows := make([][]string, 0, len(p.Graphs))
	for _, g := range p.Graphs {
		marker := ""
		if g.Metadata.ID == p.Metadata.MainGraphID {
			marker = "main"
		}
		rows = append(rows, []string{
			g.Metadata.ID,
			g.Metadata.Name,
			strconv.Itoa(len(g.Nodes)),
			strconv.Itoa(len(g.Connections)),
			marker,
		})
	}
	printTable(w, []string{"Graph", "Name", "Nodes", "Connections", ""}, rows)

	if nodes {
		for _, g := range p.Graphs {
			fmt.Fprintln(w, StyleTitle.Render(g.Metadata.ID))
			printNodes(w, g)
		}
	}
}

func printGraphSummary(w io.Writer, g *project.NodeGraph) {
	printKeyValue(w, "ID", g.Metadata.ID)
	if g.Metadata.Name != "" {
		printKeyValue(w, "Name", g.Metadata.Name)
	}
	printStats(w, len(g.Nodes), len(g.Connections))
}

func printNodes(w io.Writer, g *project.NodeGraph) {
	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		state := ""
		if n.Disabled {
			state = "disabled"
		}
		rows = append(rows, []string{n.ID, n.Type, n.Title, strconv.Itoa(len(g.Outgoing(n.ID))), state})
	}
	printTable(w, []string{"Node", "Type", "Title", "Out", ""}, rows)
}

func printDatasets(w io.Writer, datasets []project.CombinedDataset) {
	rows := make([][]string, 0, len(datasets))
	for _, d := range datasets {
		embedded := 0
		for _, r := range d.Data.Rows {
			if len(r.Embedding) > 0 {
				embedded++
			}
		}
		rows = append(rows, []string{
			d.Meta.ID,
			d.Meta.Name,
			strconv.Itoa(len(d.Data.Rows)),
			strconv.Itoa(embedded),
		})
	}
	printTable(w, []string{"Dataset", "Name", "Rows", "Embedded"}, rows)
}

// attachedSummary lists the top-level keys of attached data.
func attachedSummary(a serialization.AttachedData) string {
	if len(a) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return strings.Join(keys, ", ")
}

func currentVersion(kind serialization.DocumentKind) string {
	switch kind {
	case serialization.KindGraph:
		return serialization.GraphTable().Current().Version()
	case serialization.KindDatasets:
		return serialization.DatasetTable().Current().Version()
	default:
		return serialization.ProjectTable().Current().Version()
	}
}
