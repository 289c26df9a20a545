// Package pkg provides the core libraries for reading and writing graphfile
// documents.
//
// # Overview
//
// A graphfile project is a set of node graphs plus metadata, persisted as a
// YAML document. The on-disk schema has changed four times; every version
// ever written stays readable. The pkg directory is organized into:
//
//  1. [project] - Canonical in-memory types (Project, NodeGraph, datasets)
//  2. [serialization] - Versioned codecs and the newest-first resolver
//  3. [io] - File import/export around the serialization façade
//  4. [render] - Node-link rendering of graphs (DOT, SVG, PDF, PNG)
//  5. [cache] - Content-addressed cache for rendered artifacts
//  6. [errors] - Coded errors shared by every package
//  7. [observability] - Hooks for codec and file events
//
// # Architecture
//
// The typical data flow through graphfile:
//
//	project file (any schema version)
//	         ↓
//	    [serialization] package (try v4, v3, v2, v1 in order)
//	         ↓
//	    [project] package (canonical Project + attached data)
//	         ↓
//	    [serialization] package (current schema only)
//	         ↓
//	    project file (v4)
//
// # Quick Start
//
//	import (
//	    gfio "github.com/matzehuels/graphfile/pkg/io"
//	)
//
//	p, attached, err := gfio.ImportProject("project.yaml")
//	if err != nil {
//	    return err
//	}
//	p.Metadata.Title = "Renamed"
//	return gfio.ExportProject(p, attached, "project.yaml")
//
// [project]: github.com/matzehuels/graphfile/pkg/project
// [serialization]: github.com/matzehuels/graphfile/pkg/serialization
// [io]: github.com/matzehuels/graphfile/pkg/io
// [render]: github.com/matzehuels/graphfile/pkg/render
// [cache]: github.com/matzehuels/graphfile/pkg/cache
// [errors]: github.com/matzehuels/graphfile/pkg/errors
// [observability]: github.com/matzehuels/graphfile/pkg/observability
package pkg
