package cli

import (
	"os"

	"github.com/spf13/cobra"

	gferrors "github.com/matzehuels/graphfile/pkg/errors"
	gfio "github.com/matzehuels/graphfile/pkg/io"
	"github.com/matzehuels/graphfile/pkg/project"
)

type newOpts struct {
	title       string
	description string
	force       bool
}

// newCommand creates the new command, which writes an empty project.
func (c *CLI) newCommand() *cobra.Command {
	var opts newOpts

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create an empty project file",
		Long: `Create a project with a fresh ID and a single empty main graph, written
in the current schema.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "Untitled project", "project title")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "project description")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing file")

	return cmd
}

func (c *CLI) runNew(path string, opts newOpts) error {
	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return gferrors.New(gferrors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
		}
	}

	p := project.NewProject(opts.title)
	p.Metadata.Description = opts.description
	if err := gfio.ExportProject(p, nil, path); err != nil {
		return err
	}
	c.Logger.Debug("created project", "id", p.Metadata.ID, "main_graph", p.Metadata.MainGraphID)

	printSuccess(c.out, "Created project %s", StyleValue.Render(p.Metadata.Title))
	printFile(c.out, path)
	printNextStep(c.out, "Inspect it", appName+" inspect "+path)
	return nil
}
