package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	gferrors "github.com/matzehuels/graphfile/pkg/errors"
	"github.com/matzehuels/graphfile/pkg/observability"
	"github.com/matzehuels/graphfile/pkg/project"
	"github.com/matzehuels/graphfile/pkg/serialization"
)

func silence(t *testing.T) {
	t.Helper()
	prev := log.Default()
	log.SetDefault(log.New(&bytes.Buffer{}))
	t.Cleanup(func() { log.SetDefault(prev) })
}

func testProject() *project.Project {
	p := &project.Project{Metadata: project.ProjectMetadata{ID: "p1", Title: "Demo", MainGraphID: "g1"}}
	g := &project.NodeGraph{Metadata: project.GraphMetadata{ID: "g1", Name: "Main"}}
	g.AddNode(&project.Node{ID: "a", Type: "text", Title: "A", Data: map[string]any{"text": "hi"}})
	g.AddNode(&project.Node{ID: "b", Type: "chat", Title: "B"})
	g.Connect("a", "output", "b", "prompt")
	p.Graphs = append(p.Graphs, g)
	return p
}

func TestExportImportProject(t *testing.T) {
	silence(t)
	path := filepath.Join(t.TempDir(), "demo.yaml")
	p := testProject()
	attached := serialization.AttachedData{"note": "draft"}

	if err := ExportProject(p, attached, path); err != nil {
		t.Fatalf("ExportProject: %v", err)
	}
	got, gotAttached, err := ImportProject(path)
	if err != nil {
		t.Fatalf("ImportProject: %v", err)
	}
	if got.Metadata.Path != path {
		t.Errorf("Path = %q, want %q", got.Metadata.Path, path)
	}
	got.Metadata.Path = ""
	if diff := cmp.Diff(p, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(attached, gotAttached); diff != "" {
		t.Errorf("attached mismatch (-want +got):\n%s", diff)
	}
}

func TestImportProjectOverridesPathAfterMove(t *testing.T) {
	silence(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	moved := filepath.Join(dir, "moved.yaml")

	p := testProject()
	p.Metadata.Path = "/somewhere/else.yaml"
	if err := ExportProject(p, nil, first); err != nil {
		t.Fatalf("ExportProject: %v", err)
	}
	if err := os.Rename(first, moved); err != nil {
		t.Fatal(err)
	}
	got, _, err := ImportProject(moved)
	if err != nil {
		t.Fatalf("ImportProject: %v", err)
	}
	if got.Metadata.Path != moved {
		t.Errorf("Path = %q, want %q", got.Metadata.Path, moved)
	}
}

func TestReadWriteProject(t *testing.T) {
	silence(t)
	var buf bytes.Buffer
	if err := WriteProject(&buf, testProject(), nil); err != nil {
		t.Fatalf("WriteProject: %v", err)
	}
	got, attached, err := ReadProject(&buf, "")
	if err != nil {
		t.Fatalf("ReadProject: %v", err)
	}
	if got.Metadata.Path != "" {
		t.Errorf("Path = %q, want empty", got.Metadata.Path)
	}
	if attached != nil {
		t.Errorf("attached = %v, want nil", attached)
	}
}

func TestExportImportGraph(t *testing.T) {
	silence(t)
	path := filepath.Join(t.TempDir(), "graph.yaml")
	g := testProject().Graphs[0]

	if err := ExportGraph(g, path); err != nil {
		t.Fatalf("ExportGraph: %v", err)
	}
	got, err := ImportGraph(path)
	if err != nil {
		t.Fatalf("ImportGraph: %v", err)
	}
	if diff := cmp.Diff(g, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("graph mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := WriteGraph(&buf, g); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	if _, err := ReadGraph(&buf); err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}
}

func TestExportImportDatasets(t *testing.T) {
	silence(t)
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	ds := []project.CombinedDataset{{
		Meta: project.DatasetMetadata{ID: "d1", ProjectID: "p1", Name: "Q"},
		Data: project.Dataset{ID: "d1", Rows: []project.DatasetRow{{ID: "r1", Data: []string{"x"}}}},
	}}
	if err := ExportDatasets(ds, path); err != nil {
		t.Fatalf("ExportDatasets: %v", err)
	}
	got, err := ImportDatasets(path)
	if err != nil {
		t.Fatalf("ImportDatasets: %v", err)
	}
	if diff := cmp.Diff(ds, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("datasets mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ReadDatasets(bytes.NewReader(raw)); err != nil {
		t.Fatalf("ReadDatasets: %v", err)
	}
}

func TestImportErrors(t *testing.T) {
	silence(t)
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.yaml")
	if err := os.WriteFile(garbage, []byte("- not\n- a project\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		code     gferrors.Code
		sentinel error
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), gferrors.ErrCodeFileNotFound, nil},
		{"empty path", "", gferrors.ErrCodeInvalidPath, nil},
		{"control characters", "bad\x01path", gferrors.ErrCodeInvalidPath, nil},
		{"unreadable", garbage, gferrors.ErrCodeUnreadableProject, serialization.ErrUnreadableProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ImportProject(tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := gferrors.GetCode(err); got != tt.code {
				t.Errorf("GetCode = %s, want %s (err = %v)", got, tt.code, err)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(err, %v) = false", tt.sentinel)
			}
		})
	}
}

func TestExportRejectsDanglingOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	p := testProject()
	p.Graphs[0].Connect("ghost", "out", "a", "in")

	err := ExportProject(p, nil, path)
	if !gferrors.Is(err, gferrors.ErrCodeInvalidDocument) {
		t.Fatalf("ExportProject error = %v, want INVALID_DOCUMENT", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("file was created despite encode failure")
	}
}

type recordingFileHooks struct {
	mu     sync.Mutex
	reads  []string
	writes []string
}

func (h *recordingFileHooks) OnFileRead(path string, _ int, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reads = append(h.reads, path)
}

func (h *recordingFileHooks) OnFileWrite(path string, _ int, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writes = append(h.writes, path)
}

func TestFileHooks(t *testing.T) {
	silence(t)
	h := &recordingFileHooks{}
	observability.SetFileHooks(h)
	defer observability.Reset()

	path := filepath.Join(t.TempDir(), "hooked.yaml")
	if err := ExportProject(testProject(), nil, path); err != nil {
		t.Fatalf("ExportProject: %v", err)
	}
	if _, _, err := ImportProject(path); err != nil {
		t.Fatalf("ImportProject: %v", err)
	}
	if diff := cmp.Diff([]string{path}, h.writes); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{path}, h.reads); diff != "" {
		t.Errorf("reads mismatch (-want +got):\n%s", diff)
	}
}
