package serialization

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/graphfile/pkg/project"
)

// Version 4 is the current schema. Nodes are keyed by a single string that
// carries ID, type and title, visual data is packed into one scalar, and
// connections live on their output node:
//
//	version: 4
//	data:
//	  metadata:
//	    id: p1
//	    title: Demo
//	    mainGraphId: g1
//	  graphs:
//	    g1:
//	      metadata:
//	        id: g1
//	        name: Main
//	      nodes:
//	        '[n1]:text "Prompt"':
//	          visualData: 100/200/300/null
//	          data:
//	            text: hello
//	          outgoing:
//	            - output->"Chat" n2/prompt
//	  attachedData:
//	    note: draft

const schemaV4 = 4

type projectFileV4 struct {
	Version any            `yaml:"version,omitempty"`
	Data    *projectDataV4 `yaml:"data"`
}

type projectDataV4 struct {
	Metadata     *projectMetaWire `yaml:"metadata"`
	Graphs       mapping[graphV4] `yaml:"graphs"`
	AttachedData map[string]any   `yaml:"attachedData,omitempty"`
}

type projectMetaWire struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	MainGraphID string `yaml:"mainGraphId,omitempty" json:"mainGraphId,omitempty"`
}

type graphFileV4 struct {
	Version any      `yaml:"version,omitempty"`
	Graph   *graphV4 `yaml:"graph"`
}

type graphV4 struct {
	Metadata *graphMetaWire  `yaml:"metadata"`
	Nodes    mapping[nodeV4] `yaml:"nodes,omitempty"`
}

type graphMetaWire struct {
	ID          string `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type nodeV4 struct {
	Description string         `yaml:"description,omitempty"`
	Disabled    bool           `yaml:"disabled,omitempty"`
	VisualData  string         `yaml:"visualData"`
	Data        map[string]any `yaml:"data,omitempty"`
	Outgoing    []string       `yaml:"outgoing,omitempty"`
}

// projectCodecV4 reads and writes version 4 project files, the only
// version that carries attached data.
type projectCodecV4 struct{}

func (projectCodecV4) Version() string { return V4 }

func (projectCodecV4) Decode(raw []byte) (ProjectDocument, error) {
	var file projectFileV4
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
	return ProjectDocument{Project: p, Attached: attachedOrNil(file.Data.AttachedData)}, nil
}

func (projectCodecV4) Encode(doc ProjectDocument) ([]byte, error) {
	p := doc.Project
	data := &projectDataV4{
		Metadata:     projectMetaFromCanonical(p.Metadata),
		Graphs:       mapping[graphV4]{},
		AttachedData: doc.Attached,
	}
	for _, g := range p.Graphs {
		wire, err := graphV4FromCanonical(g)
		if err != nil {
			return nil, fmt.Errorf("graph %s: %w", g.Metadata.ID, err)
		}
		data.Graphs = append(data.Graphs, entry[graphV4]{Key: g.Metadata.ID, Value: *wire})
	}
	return encodeYAML(projectFileV4{Version: schemaV4, Data: data})
}

// graphCodecV4 reads and writes standalone version 4 graph files.
type graphCodecV4 struct{}

func (graphCodecV4) Version() string { return V4 }

func (graphCodecV4) Decode(raw []byte) (*project.NodeGraph, error) {
	var file graphFileV4
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

func (graphCodecV4) Encode(g *project.NodeGraph) ([]byte, error) {
	wire, err := graphV4FromCanonical(g)
	if err != nil {
		return nil, err
	}
	return encodeYAML(graphFileV4{Version: schemaV4, Graph: wire})
}

func (m projectMetaWire) toCanonical() project.ProjectMetadata {
	return project.ProjectMetadata{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		MainGraphID: m.MainGraphID,
	}
}

func projectMetaFromCanonical(m project.ProjectMetadata) *projectMetaWire {
	return &projectMetaWire{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		MainGraphID: m.MainGraphID,
	}
}

func (m *graphMetaWire) toCanonical(fallbackID string) (project.GraphMetadata, error) {
	if m == nil {
		return project.GraphMetadata{}, schemaErrorf("metadata", "missing")
	}
	id := m.ID
	if id == "" {
		id = fallbackID
	}
	return project.GraphMetadata{ID: id, Name: m.Name, Description: m.Description}, nil
}

func graphMetaFromCanonical(m project.GraphMetadata) *graphMetaWire {
	return &graphMetaWire{ID: m.ID, Name: m.Name, Description: m.Description}
}

func (w graphV4) toCanonical(fallbackID string) (*project.NodeGraph, error) {
	meta, err := w.Metadata.toCanonical(fallbackID)
	if err != nil {
		return nil, err
	}
	g := &project.NodeGraph{Metadata: meta}
	for _, e := range w.Nodes {
		n, err := e.Value.toCanonical(e.Key)
		if err != nil {
			return nil, wrapField("nodes", err)
		}
		g.Nodes = append(g.Nodes, n)
		for i, s := range e.Value.Outgoing {
			c, err := parseConnectionV4(n.ID, s)
			if err != nil {
				return nil, wrapField(fmt.Sprintf("nodes.%s.outgoing[%d]", n.ID, i), err)
			}
			g.Connections = append(g.Connections, c)
		}
	}
	return g, nil
}

func graphV4FromCanonical(g *project.NodeGraph) (*graphV4, error) {
	if err := checkGraphIDs(g); err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		if err := checkNodeTypeV4(n); err != nil {
			return nil, err
		}
		titles[n.ID] = n.Title
	}
	for _, c := range g.Connections {
		if _, ok := titles[c.OutputNodeID]; !ok {
			return nil, fmt.Errorf("connection %s: %w", c, project.ErrUnknownOutputNode)
		}
	}

	w := &graphV4{Metadata: graphMetaFromCanonical(g.Metadata)}
	for _, n := range g.Nodes {
		node := nodeV4{
			Description: n.Description,
			Disabled:    n.Disabled,
			VisualData:  formatVisualDataV4(n.VisualData),
			Data:        n.Data,
		}
		for _, c := range g.Outgoing(n.ID) {
			node.Outgoing = append(node.Outgoing, formatConnectionV4(c, titles[c.InputNodeID]))
		}
		w.Nodes = append(w.Nodes, entry[nodeV4]{Key: formatNodeKeyV4(n), Value: node})
	}
	return w, nil
}

// nodeKeyV4 matches `[id]:type "title"`.
var nodeKeyV4 = regexp.MustCompile(`^\[([^\]\s]+)\]:([^\s"]+) (".*")$`)

func formatNodeKeyV4(n *project.Node) string {
	return fmt.Sprintf("[%s]:%s %s", n.ID, n.Type, strconv.Quote(n.Title))
}

func parseNodeKeyV4(key string) (id, typ, title string, err error) {
	m := nodeKeyV4.FindStringSubmatch(key)
	if m == nil {
		return "", "", "", schemaErrorf(key, `node key must look like [id]:type "title"`)
	}
	title, err = strconv.Unquote(m[3])
	if err != nil {
		return "", "", "", schemaErrorf(key, "invalid node title: %v", err)
	}
	return m[1], m[2], title, nil
}

func (w nodeV4) toCanonical(key string) (*project.Node, error) {
	id, typ, title, err := parseNodeKeyV4(key)
	if err != nil {
		return nil, err
	}
	vd, err := parseVisualDataV4(w.VisualData)
	if err != nil {
		return nil, wrapField(id+".visualData", err)
	}
	data := w.Data
	if data == nil {
		data = map[string]any{}
	}
	return &project.Node{
		ID:          id,
		Type:        typ,
		Title:       title,
		Description: w.Description,
		Disabled:    w.Disabled,
		VisualData:  vd,
		Data:        data,
	}, nil
}

const nullField = "null"

// formatVisualDataV4 packs visual data as "x/y/width/zIndex".
func formatVisualDataV4(v project.VisualData) string {
	width, z := nullField, nullField
	if v.Width != nil {
		width = formatFloat(*v.Width)
	}
	if v.ZIndex != nil {
		z = strconv.Itoa(*v.ZIndex)
	}
	return strings.Join([]string{formatFloat(v.X), formatFloat(v.Y), width, z}, "/")
}

func parseVisualDataV4(s string) (project.VisualData, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return project.VisualData{}, schemaErrorf("", "expected x/y/width/zIndex, got %q", s)
	}
	var v project.VisualData
	var err error
	if v.X, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return project.VisualData{}, schemaErrorf("", "invalid x %q", parts[0])
	}
	if v.Y, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return project.VisualData{}, schemaErrorf("", "invalid y %q", parts[1])
	}
	if parts[2] != nullField {
		w, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return project.VisualData{}, schemaErrorf("", "invalid width %q", parts[2])
		}
		v.Width = &w
	}
	if parts[3] != nullField {
		z, err := strconv.Atoi(parts[3])
		if err != nil {
			return project.VisualData{}, schemaErrorf("", "invalid zIndex %q", parts[3])
		}
		v.ZIndex = &z
	}
	return v, nil
}

// formatConnectionV4 renders `outputId->"Target Title" inputNodeId/inputId`.
// The title is informational; decode ignores it. The target is split at its
// first "/", which checkGraphIDs keeps out of node IDs.
func formatConnectionV4(c project.Connection, targetTitle string) string {
	return fmt.Sprintf("%s->%s %s/%s", c.OutputID, strconv.Quote(targetTitle), c.InputNodeID, c.InputID)
}

func parseConnectionV4(outputNodeID, s string) (project.Connection, error) {
	port, rest, ok := strings.Cut(s, connectionArrow)
	if !ok || port == "" {
		return project.Connection{}, schemaErrorf("", `expected port->"title" node/port, got %q`, s)
	}
	quoted, err := strconv.QuotedPrefix(rest)
	if err != nil {
		return project.Connection{}, schemaErrorf("", "missing quoted target title in %q", s)
	}
	target, found := strings.CutPrefix(rest[len(quoted):], " ")
	if !found {
		return project.Connection{}, schemaErrorf("", "missing target in %q", s)
	}
	node, input, ok := strings.Cut(target, "/")
	if !ok || node == "" || input == "" {
		return project.Connection{}, schemaErrorf("", "expected node/port target, got %q", target)
	}
	return project.Connection{
		OutputNodeID: outputNodeID,
		OutputID:     port,
		InputNodeID:  node,
		InputID:      input,
	}, nil
}
