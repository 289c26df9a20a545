// Package project defines the canonical in-memory documents persisted by
// graphfile: projects, node graphs, and dataset collections.
//
// # Overview
//
// A [Project] is the root document. It carries [ProjectMetadata] and an
// ordered list of [NodeGraph] values. A node graph is a directed graph of
// computation [Node] values joined by [Connection] values, each connection
// linking an output port of one node to an input port of another.
//
// Datasets are tabular side-data referenced by graphs. They are always
// persisted together with their descriptive record as [CombinedDataset]
// pairs.
//
// # Canonical Shape
//
// Every value in this package is version-agnostic: the serialization layer
// decodes each historical on-disk schema into the same shapes defined here,
// so no caller can tell which schema version produced a document.
//
// Connections have a canonical order: grouped by output node, in node order,
// keeping the relative order of connections that share an output node. Use
// [NodeGraph.Canonicalize] before comparing graphs built by hand with graphs
// loaded from disk.
//
// # Validation
//
// [NodeGraph.Validate] checks structural integrity only (unique node IDs and
// connection endpoints that reference existing nodes). Whether a graph is
// executable is decided by the execution engine, not by this package.
//
// # Concurrency
//
// Values are plain data. Concurrent reads are safe; concurrent writes to the
// same value require external synchronization.
package project
