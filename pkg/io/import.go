package io

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	gferrors "github.com/matzehuels/graphfile/pkg/errors"
	"github.com/matzehuels/graphfile/pkg/observability"
	"github.com/matzehuels/graphfile/pkg/project"
	"github.com/matzehuels/graphfile/pkg/serialization"
)

// ReadProject decodes a project document of any schema version from r.
//
// originPath, when non-empty, becomes the project's Metadata.Path. The
// returned attached data is nil unless the document carried some.
//
// If no known version accepts the input, the error matches
// [serialization.ErrUnreadableProject]. ReadProject does not close r.
func ReadProject(r io.Reader, originPath string) (*project.Project, serialization.AttachedData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read: %w", err)
	}
	return serialization.DeserializeProject(raw, originPath)
}

// ImportProject reads the project file at path. The project's
// Metadata.Path is set to path.
//
// A missing file yields an error with code FILE_NOT_FOUND.
func ImportProject(path string) (*project.Project, serialization.AttachedData, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, nil, err
	}
	return serialization.DeserializeProject(raw, path)
}

// ReadGraph decodes a standalone graph document of any schema version
// from r. ReadGraph does not close r.
func ReadGraph(r io.Reader) (*project.NodeGraph, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return serialization.DeserializeGraph(raw)
}

// ImportGraph reads the graph file at path.
func ImportGraph(path string) (*project.NodeGraph, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return serialization.DeserializeGraph(raw)
}

// ReadDatasets decodes a dataset collection from r.
func ReadDatasets(r io.Reader) ([]project.CombinedDataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return serialization.DeserializeDatasets(raw)
}

// ImportDatasets reads the dataset file at path.
func ImportDatasets(path string) ([]project.CombinedDataset, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return serialization.DeserializeDatasets(raw)
}

// ReadFile returns the raw bytes at path after validating the path. It is
// the entry point for callers that need to inspect a file before choosing a
// document kind.
func ReadFile(path string) ([]byte, error) {
	return readFile(path)
}

func readFile(path string) ([]byte, error) {
	if err := gferrors.ValidatePath(path); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	observability.File().OnFileRead(path, len(raw), err)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, gferrors.Wrap(gferrors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return raw, nil
}
