package serialization

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/graphfile/pkg/project"
)

// Version 1 is JSON with no version wrapper. Graphs are an object keyed by
// ID, so document order is lost; graphs decode sorted by ID. A v1 graph
// file is the bare graph object.

type projectFileV1 struct {
	Metadata *projectMetaWire   `json:"metadata"`
	Graphs   map[string]graphV2 `json:"graphs"`
}

type projectCodecV1 struct{}

func (projectCodecV1) Version() string { return V1 }

func (projectCodecV1) Decode(raw []byte) (ProjectDocument, error) {
	var file projectFileV1
	if err := decodeJSON(raw, &file); err != nil {
		return ProjectDocument{}, err
	}
	if file.Metadata == nil {
		return ProjectDocument{}, schemaErrorf("metadata", "missing")
	}
	if file.Graphs == nil {
		return ProjectDocument{}, schemaErrorf("graphs", "missing")
	}

	p := &project.Project{Metadata: file.Metadata.toCanonical()}
	ids := make([]string, 0, len(file.Graphs))
	for id := range file.Graphs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		g, err := graphV1ToCanonical(file.Graphs[id], id)
		if err != nil {
			return ProjectDocument{}, wrapField("graphs."+id, err)
		}
		p.Graphs = append(p.Graphs, g)
	}
	if p.Metadata.MainGraphID == "" && len(p.Graphs) > 0 {
		p.Metadata.MainGraphID = p.Graphs[0].Metadata.ID
	}
	return ProjectDocument{Project: p}, nil
}

// Encode drops attached data, which version 1 cannot hold.
func (projectCodecV1) Encode(doc ProjectDocument) ([]byte, error) {
	file := projectFileV1{
		Metadata: projectMetaFromCanonical(doc.Project.Metadata),
		Graphs:   make(map[string]graphV2, len(doc.Project.Graphs)),
	}
	for _, g := range doc.Project.Graphs {
		if _, dup := file.Graphs[g.Metadata.ID]; dup {
			return nil, fmt.Errorf("duplicate graph ID %q", g.Metadata.ID)
		}
		file.Graphs[g.Metadata.ID] = graphV2FromCanonical(g)
	}
	return marshalJSON(file)
}

type graphCodecV1 struct{}

func (graphCodecV1) Version() string { return V1 }

func (graphCodecV1) Decode(raw []byte) (*project.NodeGraph, error) {
	var w graphV2
	if err := decodeJSON(raw, &w); err != nil {
		return nil, err
	}
	return graphV1ToCanonical(w, "")
}

func (graphCodecV1) Encode(g *project.NodeGraph) ([]byte, error) {
	return marshalJSON(graphV2FromCanonical(g))
}

func graphV1ToCanonical(w graphV2, fallbackID string) (*project.NodeGraph, error) {
	meta, err := w.Metadata.toCanonical(fallbackID)
	if err != nil {
		return nil, err
	}
	g := &project.NodeGraph{Metadata: meta}
	for i, n := range w.Nodes {
		if n.ID == "" {
			return nil, schemaErrorf(fmt.Sprintf("nodes[%d].id", i), "missing")
		}
		node := n.toCanonical()
		for k, v := range node.Data {
			node.Data[k] = normalizeJSON(v)
		}
		g.Nodes = append(g.Nodes, node)
	}
	for _, c := range w.Connections {
		g.Connections = append(g.Connections, project.Connection(c))
	}
	return g, nil
}

func marshalJSON(v any) ([]byte, error) {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
