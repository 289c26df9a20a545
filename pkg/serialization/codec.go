package serialization

import (
	"slices"

	"github.com/matzehuels/graphfile/pkg/project"
)

// DocumentKind names one of the persisted document kinds.
type DocumentKind string

// Document kinds.
const (
	KindProject  DocumentKind = "project"
	KindGraph    DocumentKind = "graph"
	KindDatasets DocumentKind = "datasets"
)

// Version tags, one per historical schema.
const (
	V1 = "v1"
	V2 = "v2"
	V3 = "v3"
	V4 = "v4"
)

// Codec is one schema version of one document kind.
//
// Decode either returns a fully migrated canonical document or an error
// describing why the input is not this version's shape. Encode writes a
// document in this version's shape; only the current version's encoder is
// used for production writes.
type Codec[T any] interface {
	Version() string
	Decode(raw []byte) (T, error)
	Encode(doc T) ([]byte, error)
}

// ProjectDocument is a decoded project together with its attached data.
type ProjectDocument struct {
	Project  *project.Project
	Attached AttachedData
}

// Table is the ordered list of codecs for one document kind, newest first.
//
// New versions are prepended. Entries are never reordered or removed, so
// every file ever written stays readable.
type Table[T any] struct {
	Kind    DocumentKind
	Entries []Codec[T]
}

// Current returns the newest codec, the only one used for writing.
func (t Table[T]) Current() Codec[T] {
	return t.Entries[0]
}

// Versions returns the version tags in resolution order.
func (t Table[T]) Versions() []string {
	tags := make([]string, len(t.Entries))
	for i, c := range t.Entries {
		tags[i] = c.Version()
	}
	return tags
}

var (
	projectTable = Table[ProjectDocument]{
		Kind: KindProject,
		Entries: []Codec[ProjectDocument]{
			projectCodecV4{},
			projectCodecV3{},
			projectCodecV2{},
			projectCodecV1{},
		},
	}

	graphTable = Table[*project.NodeGraph]{
		Kind: KindGraph,
		Entries: []Codec[*project.NodeGraph]{
			graphCodecV4{},
			graphCodecV3{},
			graphCodecV2{},
			graphCodecV1{},
		},
	}

	datasetTable = Table[[]project.CombinedDataset]{
		Kind: KindDatasets,
		Entries: []Codec[[]project.CombinedDataset]{
			datasetCodecV4{},
		},
	}
)

// ProjectTable returns the project codec table. The returned value is a
// copy; modifying it does not affect resolution.
func ProjectTable() Table[ProjectDocument] {
	return Table[ProjectDocument]{Kind: projectTable.Kind, Entries: slices.Clone(projectTable.Entries)}
}

// GraphTable returns the graph codec table.
func GraphTable() Table[*project.NodeGraph] {
	return Table[*project.NodeGraph]{Kind: graphTable.Kind, Entries: slices.Clone(graphTable.Entries)}
}

// DatasetTable returns the dataset codec table.
func DatasetTable() Table[[]project.CombinedDataset] {
	return Table[[]project.CombinedDataset]{Kind: datasetTable.Kind, Entries: slices.Clone(datasetTable.Entries)}
}
