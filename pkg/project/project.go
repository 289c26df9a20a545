package project

import "github.com/google/uuid"

// ProjectMetadata describes a project.
//
// Path records where the project was loaded from. It is set by the caller
// after a successful load and is never part of the serialized document.
type ProjectMetadata struct {
	ID          string
	Title       string
	Description string
	MainGraphID string
	Path        string
}

// Project is the root persisted document: metadata plus an ordered list of
// node graphs.
type Project struct {
	Metadata ProjectMetadata
	Graphs   []*NodeGraph
}

// NewProject creates an empty project with a fresh ID and a single empty
// main graph.
func NewProject(title string) *Project {
	main := NewGraph("Main Graph")
	return &Project{
		Metadata: ProjectMetadata{
			ID:          NewID(),
			Title:       title,
			MainGraphID: main.Metadata.ID,
		},
		Graphs: []*NodeGraph{main},
	}
}

// Graph returns the graph with the given ID and true, or nil and false.
func (p *Project) Graph(id string) (*NodeGraph, bool) {
	for _, g := range p.Graphs {
		if g.Metadata.ID == id {
			return g, true
		}
	}
	return nil, false
}

// MainGraph returns the graph named by Metadata.MainGraphID, falling back to
// the first graph. It returns nil for a project without graphs.
func (p *Project) MainGraph() *NodeGraph {
	if g, ok := p.Graph(p.Metadata.MainGraphID); ok {
		return g
	}
	if len(p.Graphs) > 0 {
		return p.Graphs[0]
	}
	return nil
}

// PutGraph replaces the graph with the same ID, or appends g if no such
// graph exists. It reports whether an existing graph was replaced.
func (p *Project) PutGraph(g *NodeGraph) bool {
	for i, existing := range p.Graphs {
		if existing.Metadata.ID == g.Metadata.ID {
			p.Graphs[i] = g
			return true
		}
	}
	p.Graphs = append(p.Graphs, g)
	return false
}

// NewID returns a fresh random identifier for projects, graphs, nodes and
// datasets.
func NewID() string {
	return uuid.NewString()
}
