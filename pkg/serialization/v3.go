package serialization

import (
	"fmt"
	"strings"

	"github.com/matzehuels/graphfile/pkg/project"
)

// Version 3 keys nodes by ID with explicit fields and keeps connections in
// a flat list of "outNode/outPort->inNode/inPort" strings on the graph.

const schemaV3 = 3

type projectFileV3 struct {
	Version any            `yaml:"version,omitempty"`
	Data    *projectDataV3 `yaml:"data"`
}

type projectDataV3 struct {
	Metadata *projectMetaWire `yaml:"metadata"`
	Graphs   mapping[graphV3] `yaml:"graphs"`
}

type graphFileV3 struct {
	Version any      `yaml:"version,omitempty"`
	Graph   *graphV3 `yaml:"graph"`
}

type graphV3 struct {
	Metadata    *graphMetaWire  `yaml:"metadata"`
	Nodes       mapping[nodeV3] `yaml:"nodes,omitempty"`
	Connections []string        `yaml:"connections,omitempty"`
}

type nodeV3 struct {
	Type        string         `yaml:"type"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description,omitempty"`
	Disabled    bool           `yaml:"disabled,omitempty"`
	VisualData  visualDataWire `yaml:"visualData"`
	Data        map[string]any `yaml:"data,omitempty"`
}

// visualDataWire is the object form of visual data shared by v1 to v3.
type visualDataWire struct {
	X      float64  `yaml:"x" json:"x"`
	Y      float64  `yaml:"y" json:"y"`
	Width  *float64 `yaml:"width,omitempty" json:"width,omitempty"`
	ZIndex *int     `yaml:"zIndex,omitempty" json:"zIndex,omitempty"`
}

func (v visualDataWire) toCanonical() project.VisualData {
	return project.VisualData{X: v.X, Y: v.Y, Width: v.Width, ZIndex: v.ZIndex}
}

func visualDataFromCanonical(v project.VisualData) visualDataWire {
	return visualDataWire{X: v.X, Y: v.Y, Width: v.Width, ZIndex: v.ZIndex}
}

type projectCodecV3 struct{}

func (projectCodecV3) Version() string { return V3 }

func (projectCodecV3) Decode(raw []byte) (ProjectDocument, error) {
	var file projectFileV3
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

	p := &project.Project{Metadata: file.Data.Metadata.toCanonical()}
	for _, e := range file.Data.Graphs {
		g, err := e.Value.toCanonical(e.Key)
		if err != nil {
			return ProjectDocument{}, wrapField("data.graphs."+e.Key, err)
		}
		p.Graphs = append(p.Graphs, g)
	}
	return ProjectDocument{Project: p}, nil
}

// Encode drops attached data, which version 3 cannot hold.
func (projectCodecV3) Encode(doc ProjectDocument) ([]byte, error) {
	data := &projectDataV3{
		Metadata: projectMetaFromCanonical(doc.Project.Metadata),
		Graphs:   mapping[graphV3]{},
	}
	for _, g := range doc.Project.Graphs {
		w, err := graphV3FromCanonical(g)
		if err != nil {
			return nil, fmt.Errorf("graph %s: %w", g.Metadata.ID, err)
		}
		data.Graphs = append(data.Graphs, entry[graphV3]{Key: g.Metadata.ID, Value: w})
	}
	return encodeYAML(projectFileV3{Version: schemaV3, Data: data})
}

type graphCodecV3 struct{}

func (graphCodecV3) Version() string { return V3 }

func (graphCodecV3) Decode(raw []byte) (*project.NodeGraph, error) {
	var file graphFileV3
	if err := decodeYAML(raw, &file); err != nil {
		return nil, err
	}
	if file.Graph == nil {
		return nil, schemaErrorf("graph", "missing")
	}
	g, err := file.Graph.toCanonical("")
	if err != nil {
		return nil, wrapField("graph", err)
	}
	return g, nil
}

func (graphCodecV3) Encode(g *project.NodeGraph) ([]byte, error) {
	w, err := graphV3FromCanonical(g)
	if err != nil {
		return nil, err
	}
	return encodeYAML(graphFileV3{Version: schemaV3, Graph: &w})
}

func (w graphV3) toCanonical(fallbackID string) (*project.NodeGraph, error) {
	meta, err := w.Metadata.toCanonical(fallbackID)
	if err != nil {
		return nil, err
	}
	g := &project.NodeGraph{Metadata: meta}
	for _, e := range w.Nodes {
		n := e.Value
		data := n.Data
		if data == nil {
			data = map[string]any{}
		}
		g.Nodes = append(g.Nodes, &project.Node{
			ID:          e.Key,
			Type:        n.Type,
			Title:       n.Title,
			Description: n.Description,
			Disabled:    n.Disabled,
			VisualData:  n.VisualData.toCanonical(),
			Data:        data,
		})
	}
	for i, s := range w.Connections {
		c, err := parseConnectionV3(s)
		if err != nil {
			return nil, wrapField(fmt.Sprintf("connections[%d]", i), err)
		}
		g.Connections = append(g.Connections, c)
	}
	return g, nil
}

func graphV3FromCanonical(g *project.NodeGraph) (graphV3, error) {
	if err := checkGraphIDs(g); err != nil {
		return graphV3{}, err
	}
	w := graphV3{Metadata: graphMetaFromCanonical(g.Metadata)}
	for _, n := range g.Nodes {
		w.Nodes = append(w.Nodes, entry[nodeV3]{Key: n.ID, Value: nodeV3{
			Type:        n.Type,
			Title:       n.Title,
			Description: n.Description,
			Disabled:    n.Disabled,
			VisualData:  visualDataFromCanonical(n.VisualData),
			Data:        n.Data,
		}})
	}
	for _, c := range g.Connections {
		w.Connections = append(w.Connections, c.String())
	}
	return w, nil
}

// parseConnectionV3 parses "outNode/outPort->inNode/inPort".
func parseConnectionV3(s string) (project.Connection, error) {
	out, in, ok := strings.Cut(s, connectionArrow)
	if !ok {
		return project.Connection{}, schemaErrorf("", "expected out/port->in/port, got %q", s)
	}
	outNode, outPort, ok1 := strings.Cut(out, "/")
	inNode, inPort, ok2 := strings.Cut(in, "/")
	if !ok1 || !ok2 || outNode == "" || outPort == "" || inNode == "" || inPort == "" {
		return project.Connection{}, schemaErrorf("", "expected out/port->in/port, got %q", s)
	}
	return project.Connection{
		OutputNodeID: outNode,
		OutputID:     outPort,
		InputNodeID:  inNode,
		InputID:      inPort,
	}, nil
}
