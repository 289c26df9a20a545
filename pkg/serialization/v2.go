package serialization

import (
	"fmt"

	"github.com/matzehuels/graphfile/pkg/project"
)

// Version 2 stores graphs and nodes as sequences and connections as
// objects. Project metadata has no main graph; the first graph is used.

const schemaV2 = 2

type projectFileV2 struct {
	Version any            `yaml:"version,omitempty"`
	Data    *projectDataV2 `yaml:"data"`
}

type projectDataV2 struct {
	Metadata *projectMetaV2 `yaml:"metadata"`
	Graphs   []graphV2      `yaml:"graphs"`
}

type projectMetaV2 struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type graphFileV2 struct {
	Version any      `yaml:"version,omitempty"`
	Graph   *graphV2 `yaml:"graph"`
}

type graphV2 struct {
	Metadata    *graphMetaWire `yaml:"metadata" json:"metadata"`
	Nodes       []nodeV2       `yaml:"nodes,omitempty" json:"nodes"`
	Connections []connectionV2 `yaml:"connections,omitempty" json:"connections"`
}

// nodeV2 is also the v1 node shape.
type nodeV2 struct {
	ID          string         `yaml:"id" json:"id"`
	Type        string         `yaml:"type" json:"type"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Disabled    bool           `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	VisualData  visualDataWire `yaml:"visualData" json:"visualData"`
	Data        map[string]any `yaml:"data,omitempty" json:"data,omitempty"`
}

type connectionV2 struct {
	OutputNodeID string `yaml:"outputNodeId" json:"outputNodeId"`
	OutputID     string `yaml:"outputId" json:"outputId"`
	InputNodeID  string `yaml:"inputNodeId" json:"inputNodeId"`
	InputID      string `yaml:"inputId" json:"inputId"`
}

type projectCodecV2 struct{}

func (projectCodecV2) Version() string { return V2 }

func (projectCodecV2) Decode(raw []byte) (ProjectDocument, error) {
	var file projectFileV2
	if err := decodeYAML(raw, &file); err != nil {
		return ProjectDocument{}, err
	}
	if file.Data == nil {
		return ProjectDocument{}, schemaErrorf("data", "missing")
	}
	if file.Data.Metadata == nil {
		return ProjectDocument{}, schemaErrorf("data.metadata", "missing")
	}
	if file.Data.Graphs == nil {
		return ProjectDocument{}, schemaErrorf("data.graphs", "missing")
	}

	m := file.Data.Metadata
	p := &project.Project{Metadata: project.ProjectMetadata{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
	}}
	for i, w := range file.Data.Graphs {
		g, err := w.toCanonical()
		if err != nil {
			return ProjectDocument{}, wrapField(fmt.Sprintf("data.graphs[%d]", i), err)
		}
		p.Graphs = append(p.Graphs, g)
	}
	if len(p.Graphs) > 0 {
		p.Metadata.MainGraphID = p.Graphs[0].Metadata.ID
	}
	return ProjectDocument{Project: p}, nil
}

// Encode writes graphs in project order. The main graph and attached data
// are dropped; version 2 can hold neither.
func (projectCodecV2) Encode(doc ProjectDocument) ([]byte, error) {
	m := doc.Project.Metadata
	data := &projectDataV2{
		Metadata: &projectMetaV2{ID: m.ID, Title: m.Title, Description: m.Description},
		Graphs:   []graphV2{},
	}
	for _, g := range doc.Project.Graphs {
		data.Graphs = append(data.Graphs, graphV2FromCanonical(g))
	}
	return encodeYAML(projectFileV2{Version: schemaV2, Data: data})
}

type graphCodecV2 struct{}

func (graphCodecV2) Version() string { return V2 }

func (graphCodecV2) Decode(raw []byte) (*project.NodeGraph, error) {
	var file graphFileV2
	if err := decodeYAML(raw, &file); err != nil {
		return nil, err
	}
	if file.Graph == nil {
		return nil, schemaErrorf("graph", "missing")
	}
	g, err := file.Graph.toCanonical()
	if err != nil {
		return nil, wrapField("graph", err)
	}
	return g, nil
}

func (graphCodecV2) Encode(g *project.NodeGraph) ([]byte, error) {
	w := graphV2FromCanonical(g)
	return encodeYAML(graphFileV2{Version: schemaV2, Graph: &w})
}

func (w graphV2) toCanonical() (*project.NodeGraph, error) {
	meta, err := w.Metadata.toCanonical("")
	if err != nil {
		return nil, err
	}
	if meta.ID == "" {
		return nil, schemaErrorf("metadata.id", "missing")
	}
	g := &project.NodeGraph{Metadata: meta}
	for i, n := range w.Nodes {
		if n.ID == "" {
			return nil, schemaErrorf(fmt.Sprintf("nodes[%d].id", i), "missing")
		}
		g.Nodes = append(g.Nodes, n.toCanonical())
	}
	for _, c := range w.Connections {
		g.Connections = append(g.Connections, project.Connection(c))
	}
	return g, nil
}

func graphV2FromCanonical(g *project.NodeGraph) graphV2 {
	w := graphV2{Metadata: graphMetaFromCanonical(g.Metadata)}
	for _, n := range g.Nodes {
		w.Nodes = append(w.Nodes, nodeV2FromCanonical(n))
	}
	for _, c := range g.Connections {
		w.Connections = append(w.Connections, connectionV2(c))
	}
	return w
}

func (n nodeV2) toCanonical() *project.Node {
	data := n.Data
	if data == nil {
		data = map[string]any{}
	}
	return &project.Node{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Description: n.Description,
		Disabled:    n.Disabled,
		VisualData:  n.VisualData.toCanonical(),
		Data:        data,
	}
}

func nodeV2FromCanonical(n *project.Node) nodeV2 {
	return nodeV2{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Description: n.Description,
		Disabled:    n.Disabled,
		VisualData:  visualDataFromCanonical(n.VisualData),
		Data:        n.Data,
	}
}
