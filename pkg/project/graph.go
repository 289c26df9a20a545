package project

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [NodeGraph.Validate] when a node has an
	// empty ID. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [NodeGraph.Validate] when two nodes
	// share the same ID. Node IDs must be unique within a graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownOutputNode is returned when a connection's OutputNodeID does
	// not reference a node in the graph.
	ErrUnknownOutputNode = errors.New("unknown output node")

	// ErrUnknownInputNode is returned when a connection's InputNodeID does
	// not reference a node in the graph.
	ErrUnknownInputNode = errors.New("unknown input node")
)

// GraphMetadata describes a node graph.
type GraphMetadata struct {
	ID          string
	Name        string
	Description string
}

// VisualData is the editor placement of a node. Width and ZIndex are
// optional; nil means the editor picks a default.
type VisualData struct {
	X      float64
	Y      float64
	Width  *float64
	ZIndex *int
}

// Node is a single computation step in a graph.
//
// Data holds the node-type-specific configuration. Its contents are opaque
// to this package and are round-tripped as-is.
type Node struct {
	ID          string
	Type        string
	Title       string
	Description string
	Disabled    bool
	VisualData  VisualData
	Data        map[string]any
}

// Connection links the output port OutputID of node OutputNodeID to the
// input port InputID of node InputNodeID.
type Connection struct {
	OutputNodeID string
	OutputID     string
	InputNodeID  string
	InputID      string
}

// String renders the connection as "out/port->in/port".
func (c Connection) String() string {
	return fmt.Sprintf("%s/%s->%s/%s", c.OutputNodeID, c.OutputID, c.InputNodeID, c.InputID)
}

// NodeGraph is a directed graph of nodes and connections.
//
// The zero value is an empty, valid graph. Node order is significant and is
// preserved by every serialization version.
type NodeGraph struct {
	Metadata    GraphMetadata
	Nodes       []*Node
	Connections []Connection
}

// NewGraph creates an empty graph with a fresh ID.
func NewGraph(name string) *NodeGraph {
	return &NodeGraph{Metadata: GraphMetadata{ID: NewID(), Name: name}}
}

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the node stored in the graph.
func (g *NodeGraph) Node(id string) (*Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// AddNode appends n to the graph. It does not check for duplicates; use
// Validate once the graph is built.
func (g *NodeGraph) AddNode(n *Node) {
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	g.Nodes = append(g.Nodes, n)
}

// Connect appends a connection from out/outPort to in/inPort.
func (g *NodeGraph) Connect(out, outPort, in, inPort string) {
	g.Connections = append(g.Connections, Connection{
		OutputNodeID: out,
		OutputID:     outPort,
		InputNodeID:  in,
		InputID:      inPort,
	})
}

// Outgoing returns the connections whose output side is the node id, in
// the order they appear in Connections.
func (g *NodeGraph) Outgoing(id string) []Connection {
	var out []Connection
	for _, c := range g.Connections {
		if c.OutputNodeID == id {
			out = append(out, c)
		}
	}
	return out
}

// Incoming returns the connections whose input side is the node id.
func (g *NodeGraph) Incoming(id string) []Connection {
	var in []Connection
	for _, c := range g.Connections {
		if c.InputNodeID == id {
			in = append(in, c)
		}
	}
	return in
}

// index maps node IDs to their position in Nodes.
func (g *NodeGraph) index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, seen := idx[n.ID]; !seen {
			idx[n.ID] = i
		}
	}
	return idx
}

// Canonicalize reorders Connections into canonical order: grouped by output
// node in node order, stable within a group. Connections whose output node
// is missing sort last, in their original order.
func (g *NodeGraph) Canonicalize() {
	idx := g.index()
	rank := func(c Connection) int {
		if i, ok := idx[c.OutputNodeID]; ok {
			return i
		}
		return len(g.Nodes)
	}
	slices.SortStableFunc(g.Connections, func(a, b Connection) int {
		return rank(a) - rank(b)
	})
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that every node has a unique, non-empty ID and that both ends
// of every connection reference an existing node. Errors wrap the sentinel
// values of this package so errors.Is can be used to classify them.
func (g *NodeGraph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		if n == nil || n.ID == "" {
			return fmt.Errorf("node %d: %w", i, ErrInvalidNodeID)
		}
		if _, dup := seen[n.ID]; dup {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNodeID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, c := range g.Connections {
		if _, ok := seen[c.OutputNodeID]; !ok {
			return fmt.Errorf("connection %s: %w", c, ErrUnknownOutputNode)
		}
		if _, ok := seen[c.InputNodeID]; !ok {
			return fmt.Errorf("connection %s: %w", c, ErrUnknownInputNode)
		}
	}
	return nil
}
