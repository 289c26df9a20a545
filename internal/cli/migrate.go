package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	gfio "github.com/matzehuels/graphfile/pkg/io"
	"github.com/matzehuels/graphfile/pkg/serialization"
)

// stdoutPath selects standard output for -o.
const stdoutPath = "-"

type migrateOpts struct {
	output string
	backup bool
	force  bool
}

// migrateCommand creates the migrate command, which rewrites a file of any
// schema version in the current one.
func (c *CLI) migrateCommand() *cobra.Command {
	var opts migrateOpts

	cmd := &cobra.Command{
		Use:   "migrate <file>",
		Short: "Rewrite a file in the current schema",
		Long: `Migrate reads a project, graph or datasets file written in any known
schema version and writes it back in the current one. The file is replaced
in place unless -o is given; "-o -" prints the result instead.

Files already in the current schema are left untouched unless --force is set.`,
		Example: `  # Upgrade in place, keeping the original as project.yaml.bak
  graphfile migrate project.yaml --backup

  # Preview the upgraded document
  graphfile migrate old.json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("backup") {
				opts.backup = c.Config.Migrate.Backup
			}
			return c.runMigrate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file ("-" for stdout, default: rewrite in place)`)
	cmd.Flags().BoolVar(&opts.backup, "backup", false, "keep the original file as <file>.bak when rewriting in place")
	cmd.Flags().BoolVar(&opts.force, "force", false, "rewrite files already in the current schema")

	return cmd
}

func (c *CLI) runMigrate(cmd *cobra.Command, input string, opts migrateOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	doc, err := c.loadDocument(input)
	if err != nil {
		return err
	}
	current := currentVersion(doc.Kind)
	logger.Debug("resolved document", "kind", doc.Kind, "version", doc.Version)

	output := opts.output
	if output == "" {
		output = input
	}
	if output == input && doc.Version == current && !opts.force {
		printInfo(c.out, "%s is already a %s %s file", input, doc.Kind, current)
		return nil
	}

	if output == stdoutPath {
		return writeDocument(c.out, doc)
	}

	if output == input && opts.backup {
		backup := input + ".bak"
		if err := os.WriteFile(backup, doc.raw, 0o644); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		logger.Debug("wrote backup", "path", backup)
	}

	if err := exportDocument(doc, output); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Migrated %s %s to %s", doc.Kind, doc.Version, current))

	printSuccess(c.out, "Migrated %s from %s to %s", doc.Kind, doc.Version, current)
	printFile(c.out, output)
	return nil
}

// writeDocument encodes doc in the current schema of its kind.
func writeDocument(w io.Writer, doc *document) error {
	switch doc.Kind {
	case serialization.KindProject:
		return gfio.WriteProject(w, doc.Project, doc.Attached)
	case serialization.KindGraph:
		return gfio.WriteGraph(w, doc.Graph)
	default:
		raw, err := serialization.SerializeDatasets(doc.Datasets)
		if err != nil {
			return err
		}
		_, err = w.Write(raw)
		return err
	}
}

func exportDocument(doc *document, path string) error {
	switch doc.Kind {
	case serialization.KindProject:
		return gfio.ExportProject(doc.Project, doc.Attached, path)
	case serialization.KindGraph:
		return gfio.ExportGraph(doc.Graph, path)
	default:
		return gfio.ExportDatasets(doc.Datasets, path)
	}
}
