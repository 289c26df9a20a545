package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	gfio "github.com/matzehuels/graphfile/pkg/io"
	"github.com/matzehuels/graphfile/pkg/project"
)

// datasetsCommand creates the datasets command, which lists a dataset
// collection file.
func (c *CLI) datasetsCommand() *cobra.Command {
	var rows bool

	cmd := &cobra.Command{
		Use:   "datasets <file>",
		Short: "List the datasets in a dataset collection file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			datasets, err := gfio.ImportDatasets(args[0])
			if err != nil {
				return err
			}
			c.printDatasetList(datasets, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&rows, "rows", false, "print every row")

	return cmd
}

func (c *CLI) printDatasetList(datasets []project.CombinedDataset, rows bool) {
	if len(datasets) == 0 {
		printInfo(c.out, "No datasets")
		return
	}
	printDatasets(c.out, datasets)
	if !rows {
		return
	}

	for _, d := range datasets {
		title := d.Meta.Name
		if title == "" {
			title = d.Meta.ID
		}
		fmt.Fprintln(c.out, StyleTitle.Render(title))
		if d.Meta.Description != "" {
			printDetail(c.out, "%s", d.Meta.Description)
		}
		table := make([][]string, 0, len(d.Data.Rows))
		for _, r := range d.Data.Rows {
			dims := ""
			if len(r.Embedding) > 0 {
				dims = strconv.Itoa(len(r.Embedding))
			}
			table = append(table, []string{r.ID, strings.Join(r.Data, " | "), dims})
		}
		printTable(c.out, []string{"Row", "Data", "Dims"}, table)
	}
}
