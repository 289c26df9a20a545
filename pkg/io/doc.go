// Package io reads and writes graphfile documents on disk.
//
// # Overview
//
// This package is the file-system edge of the serialization layer. It
// validates paths, reads whole files, and hands the bytes to
// [serialization], which tries every schema version a document could have
// been written in. Writes always use the current schema.
//
// Three document kinds are supported:
//
//   - Projects: one or more node graphs plus project metadata and optional
//     attached data
//   - Graphs: a single node graph, used to move a graph between projects
//   - Dataset collections: tabular rows with optional embeddings
//
// # Import
//
// Use [ImportProject] to read a project from a file path, or [ReadProject]
// to read from any io.Reader:
//
//	p, attached, err := io.ImportProject("demo.graphfile.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// [ImportProject] records the path it read from in the project's metadata,
// so a project loaded from disk always knows where it lives, even if the
// file was copied or renamed. [ReadProject] takes the origin path as an
// argument; pass "" when there is none.
//
// Files that no schema version accepts fail with an error matching
// [serialization.ErrUnreadableProject] (or the graph and dataset
// equivalents). Missing files fail with code FILE_NOT_FOUND.
//
// # Export
//
// Use [ExportProject] to write a project to a file, or [WriteProject] to
// write to any io.Writer:
//
//	err := io.ExportProject(p, attached, "demo.graphfile.yaml")
//
// Attached data is written back only if it is passed in again. A project
// exported with nil attached data loses whatever it was imported with.
//
// # Hooks
//
// Every file read and write is reported to [observability.File].
//
// # Concurrency
//
// All functions are safe to call concurrently. Imported documents are
// independent of their source and may be modified freely.
package io
