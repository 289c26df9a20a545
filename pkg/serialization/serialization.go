package serialization

import (
	gferrors "github.com/matzehuels/graphfile/pkg/errors"
	"github.com/matzehuels/graphfile/pkg/observability"
	"github.com/matzehuels/graphfile/pkg/project"
)

// SerializeProject writes p and attached in the current project schema.
// attached may be nil.
func SerializeProject(p *project.Project, attached AttachedData) ([]byte, error) {
	if p == nil {
		return nil, gferrors.New(gferrors.ErrCodeInvalidInput, "project is nil")
	}
	return encode(projectTable, ProjectDocument{Project: p, Attached: attached})
}

// DeserializeProject reads a project written in any known schema version.
//
// A non-empty originPath replaces the project's path with the location the
// bytes were read from; an empty originPath leaves the decoded path alone.
// If no version accepts raw, the error is an *ExhaustedVersionsError that
// matches [ErrUnreadableProject].
func DeserializeProject(raw []byte, originPath string) (*project.Project, AttachedData, error) {
	res, err := Resolve(projectTable, raw)
	if err != nil {
		return nil, nil, err
	}
	p := res.Value.Project
	if originPath != "" {
		p = withOriginPath(p, originPath)
	}
	return p, res.Value.Attached, nil
}

// withOriginPath returns a copy of p whose metadata path is path. Graphs
// are shared with p.
func withOriginPath(p *project.Project, path string) *project.Project {
	out := *p
	out.Metadata.Path = path
	return &out
}

// SerializeGraph writes g in the current graph schema.
func SerializeGraph(g *project.NodeGraph) ([]byte, error) {
	if g == nil {
		return nil, gferrors.New(gferrors.ErrCodeInvalidInput, "graph is nil")
	}
	return encode(graphTable, g)
}

// DeserializeGraph reads a standalone graph written in any known schema
// version. Failure matches [ErrUnreadableGraph].
func DeserializeGraph(raw []byte) (*project.NodeGraph, error) {
	res, err := Resolve(graphTable, raw)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// SerializeDatasets writes datasets in the current dataset schema.
func SerializeDatasets(datasets []project.CombinedDataset) ([]byte, error) {
	return encode(datasetTable, datasets)
}

// DeserializeDatasets reads a dataset collection. Failure matches
// [ErrUnreadableDatasets].
func DeserializeDatasets(raw []byte) ([]project.CombinedDataset, error) {
	res, err := Resolve(datasetTable, raw)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// DetectProjectVersion reports which schema version raw resolves to as a
// project.
func DetectProjectVersion(raw []byte) (string, error) {
	res, err := Resolve(projectTable, raw)
	if err != nil {
		return "", err
	}
	return res.Version, nil
}

// DetectGraphVersion reports which schema version raw resolves to as a
// standalone graph.
func DetectGraphVersion(raw []byte) (string, error) {
	res, err := Resolve(graphTable, raw)
	if err != nil {
		return "", err
	}
	return res.Version, nil
}

// encode runs the table's current codec and reports the result.
func encode[T any](t Table[T], doc T) ([]byte, error) {
	c := t.Current()
	out, err := c.Encode(doc)
	observability.Codec().OnEncode(string(t.Kind), c.Version(), len(out), err)
	if err != nil {
		return nil, gferrors.Wrap(gferrors.ErrCodeInvalidDocument, err, "cannot write %s %s", t.Kind, c.Version())
	}
	return out, nil
}
