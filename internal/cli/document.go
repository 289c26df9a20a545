package cli

import (
	"errors"

	gferrors "github.com/matzehuels/graphfile/pkg/errors"
	gfio "github.com/matzehuels/graphfile/pkg/io"
	"github.com/matzehuels/graphfile/pkg/project"
	"github.com/matzehuels/graphfile/pkg/serialization"
)

// document is a file of any kind, decoded in whichever schema version
// accepted it. Exactly one of Project, Graph or Datasets is set.
type document struct {
	Path    string
	Kind    serialization.DocumentKind
	Version string
	// Failures holds the newer versions that rejected the file first.
	Failures []*serialization.DecodeFailure

	Project  *project.Project
	Attached serialization.AttachedData
	Graph    *project.NodeGraph
	Datasets []project.CombinedDataset

	raw []byte
}

// loadDocument reads path and decodes it as a project, then as a
// standalone graph, then as a dataset collection. Rejections of the kinds
// that do not match are only logged at debug level.
func (c *CLI) loadDocument(path string) (*document, error) {
	raw, err := gfio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc := &document{Path: path, raw: raw}

	restore := quiet(c.Logger)
	defer restore()

	p, projectErr := serialization.Resolve(serialization.ProjectTable(), raw)
	if projectErr == nil {
		doc.Kind, doc.Version, doc.Failures = serialization.KindProject, p.Version, p.Failures
		doc.Project, doc.Attached = p.Value.Project, p.Value.Attached
		doc.Project.Metadata.Path = path
		return doc, nil
	}

	g, graphErr := serialization.Resolve(serialization.GraphTable(), raw)
	if graphErr == nil {
		doc.Kind, doc.Version, doc.Failures = serialization.KindGraph, g.Version, g.Failures
		doc.Graph = g.Value
		return doc, nil
	}

	d, datasetsErr := serialization.Resolve(serialization.DatasetTable(), raw)
	if datasetsErr == nil {
		doc.Kind, doc.Version, doc.Datasets = serialization.KindDatasets, d.Version, d.Value
		return doc, nil
	}

	return nil, gferrors.Wrap(gferrors.ErrCodeInvalidDocument, errors.Join(projectErr, graphErr, datasetsErr),
		"%s is not a readable project, graph or datasets file", path)
}

// graph picks the graph a command operates on: the standalone graph, the
// project graph with the given ID, or the project's main graph when id is
// empty.
func (d *document) graph(id string) (*project.NodeGraph, error) {
	switch d.Kind {
	case serialization.KindGraph:
		if id != "" && id != d.Graph.Metadata.ID {
			return nil, gferrors.New(gferrors.ErrCodeGraphNotFound, "%s holds graph %q, not %q", d.Path, d.Graph.Metadata.ID, id)
		}
		return d.Graph, nil
	case serialization.KindProject:
		if id == "" {
			if g := d.Project.MainGraph(); g != nil {
				return g, nil
			}
			return nil, gferrors.New(gferrors.ErrCodeGraphNotFound, "project %s has no graphs", d.Path)
		}
		if g, ok := d.Project.Graph(id); ok {
			return g, nil
		}
		return nil, gferrors.New(gferrors.ErrCodeGraphNotFound, "project %s has no graph %q", d.Path, id)
	default:
		return nil, gferrors.New(gferrors.ErrCodeUnsupported, "%s is a %s file and holds no graph", d.Path, d.Kind)
	}
}
