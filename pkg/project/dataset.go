package project

// DatasetMetadata is the descriptive record of a dataset.
type DatasetMetadata struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
}

// DatasetRow is one row of a dataset. Embedding is optional.
type DatasetRow struct {
	ID        string
	Data      []string
	Embedding []float64
}

// Dataset is the tabular content of a dataset.
type Dataset struct {
	ID   string
	Rows []DatasetRow
}

// CombinedDataset pairs a dataset with its metadata. Datasets are always
// persisted in this form.
type CombinedDataset struct {
	Meta DatasetMetadata
	Data Dataset
}
