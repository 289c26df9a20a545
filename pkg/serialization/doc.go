// Package serialization reads and writes graphfile documents across every
// schema version ever written.
//
// # Overview
//
// Three document kinds are persisted: projects, node graphs, and dataset
// collections. Each kind has a codec table, an ordered list of schema
// versions from newest to oldest. Files are always written with the newest
// version; files written by any older version remain readable.
//
//	raw, err := serialization.SerializeProject(p, nil)
//	p, attached, err := serialization.DeserializeProject(raw, "/work/demo.yaml")
//
// # Fallback Resolution
//
// Reading never trusts the version field a document declares. [Resolve]
// tries every decoder in table order and returns the first success. Each
// rejected attempt is recorded as a [DecodeFailure] tagged with its version,
// logged, and reported to the observability hooks. When every version
// rejects the input, the caller receives a single [ExhaustedVersionsError]
// carrying a fixed message per document kind ("Could not deserialize
// project") and the full list of per-version failures.
//
// Results from different versions are never merged.
//
// # Failure Classification
//
// [Classify] separates structural failures (the bytes are not well-formed
// YAML or JSON under the attempted version's grammar) from schema failures
// (well-formed, but not the attempted version's shape). Structural failures
// are logged at error level because they usually mean a corrupt file; they
// still do not stop the cascade, since versions differ in surface syntax.
//
// # Attached Data
//
// [AttachedData] carries auxiliary project content that the canonical model
// does not represent, such as editor annotations. Only the current project
// version stores it. [SerializeProject] re-embeds it and
// [DeserializeProject] returns it; older versions always yield nil.
//
// # Wire Formats
//
//   - v4 (current): YAML; nodes keyed as `[id]:type "Title"`, packed
//     visual data, connections listed on their output node.
//   - v3: YAML; nodes keyed by ID, connections as "out/port->in/port".
//   - v2: YAML; graphs and nodes as sequences, connections as objects.
//   - v1: JSON without a version wrapper.
//
// Dataset collections have a single version, v4, resolved through the same
// machinery so that future versions can be prepended.
//
// # Concurrency
//
// Every function is a pure function of its input. Codec tables are built at
// package initialization and never modified, so concurrent calls need no
// locking.
package serialization
