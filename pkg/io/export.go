package io

import (
	"fmt"
	"io"
	"os"

	gferrors "github.com/matzehuels/graphfile/pkg/errors"
	"github.com/matzehuels/graphfile/pkg/observability"
	"github.com/matzehuels/graphfile/pkg/project"
	"github.com/matzehuels/graphfile/pkg/serialization"
)

// WriteProject encodes p and attached in the current schema and writes the
// result to w. attached may be nil.
func WriteProject(w io.Writer, p *project.Project, attached serialization.AttachedData) error {
	raw, err := serialization.SerializeProject(p, attached)
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportProject writes p and attached to a file at path in the current
// schema. This is a convenience wrapper around [WriteProject].
func ExportProject(p *project.Project, attached serialization.AttachedData, path string) error {
	raw, err := serialization.SerializeProject(p, attached)
	if err != nil {
		return err
	}
	return writeFile(path, raw)
}

// WriteGraph encodes g as a standalone graph document and writes it to w.
func WriteGraph(w io.Writer, g *project.NodeGraph) error {
	raw, err := serialization.SerializeGraph(g)
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportGraph writes g to a standalone graph file at path.
func ExportGraph(g *project.NodeGraph, path string) error {
	raw, err := serialization.SerializeGraph(g)
	if err != nil {
		return err
	}
	return writeFile(path, raw)
}

// ExportDatasets writes datasets to a file at path.
func ExportDatasets(datasets []project.CombinedDataset, path string) error {
	raw, err := serialization.SerializeDatasets(datasets)
	if err != nil {
		return err
	}
	return writeFile(path, raw)
}

func writeFile(path string, raw []byte) error {
	if err := gferrors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		observability.File().OnFileWrite(path, 0, err)
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	n, err := f.Write(raw)
	if err == nil {
		err = f.Close()
	}
	observability.File().OnFileWrite(path, n, err)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
