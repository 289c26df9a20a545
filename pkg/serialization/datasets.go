package serialization

import (
	"fmt"

	"github.com/matzehuels/graphfile/pkg/project"
)

// Datasets have a single version:
//
//	version: 4
//	datasets:
//	  - meta:
//	      id: d1
//	      projectId: p1
//	      name: Questions
//	    data:
//	      id: d1
//	      rows:
//	        - id: r1
//	          data: [what is up]
//	          embedding: [0.1, 0.2]

type datasetsFileV4 struct {
	Version  any             `yaml:"version,omitempty"`
	Datasets []datasetWireV4 `yaml:"datasets"`
}

type datasetWireV4 struct {
	Meta *datasetMetaV4 `yaml:"meta"`
	Data *datasetDataV4 `yaml:"data"`
}

type datasetMetaV4 struct {
	ID          string `yaml:"id"`
	ProjectID   string `yaml:"projectId"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

type datasetDataV4 struct {
	ID   string         `yaml:"id"`
	Rows []datasetRowV4 `yaml:"rows"`
}

type datasetRowV4 struct {
	ID        string    `yaml:"id"`
	Data      []string  `yaml:"data"`
	Embedding []float64 `yaml:"embedding,omitempty"`
}

type datasetCodecV4 struct{}

func (datasetCodecV4) Version() string { return V4 }

func (datasetCodecV4) Decode(raw []byte) ([]project.CombinedDataset, error) {
	var file datasetsFileV4
	if err := decodeYAML(raw, &file); err != nil {
		return nil, err
	}
	if file.Datasets == nil {
		return nil, schemaErrorf("datasets", "missing")
	}
	out := make([]project.CombinedDataset, 0, len(file.Datasets))
	for i, d := range file.Datasets {
		field := fmt.Sprintf("datasets[%d]", i)
		if d.Meta == nil {
			return nil, schemaErrorf(field+".meta", "missing")
		}
		if d.Data == nil {
			return nil, schemaErrorf(field+".data", "missing")
		}
		cd := project.CombinedDataset{
			Meta: project.DatasetMetadata{
				ID:          d.Meta.ID,
				ProjectID:   d.Meta.ProjectID,
				Name:        d.Meta.Name,
				Description: d.Meta.Description,
			},
			Data: project.Dataset{ID: d.Data.ID},
		}
		for _, r := range d.Data.Rows {
			cd.Data.Rows = append(cd.Data.Rows, project.DatasetRow(r))
		}
		out = append(out, cd)
	}
	return out, nil
}

func (datasetCodecV4) Encode(datasets []project.CombinedDataset) ([]byte, error) {
	file := datasetsFileV4{Version: schemaV4, Datasets: []datasetWireV4{}}
	for _, d := range datasets {
		w := datasetWireV4{
			Meta: &datasetMetaV4{
				ID:          d.Meta.ID,
				ProjectID:   d.Meta.ProjectID,
				Name:        d.Meta.Name,
				Description: d.Meta.Description,
			},
			Data: &datasetDataV4{ID: d.Data.ID, Rows: []datasetRowV4{}},
		}
		for _, r := range d.Data.Rows {
			w.Data.Rows = append(w.Data.Rows, datasetRowV4(r))
		}
		file.Datasets = append(file.Datasets, w)
	}
	return encodeYAML(file)
}
