package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphfile/internal/config"
	gferrors "github.com/matzehuels/graphfile/pkg/errors"
	gfio "github.com/matzehuels/graphfile/pkg/io"
	"github.com/matzehuels/graphfile/pkg/project"
	"github.com/matzehuels/graphfile/pkg/serialization"
)

const legacyProject = `{
  "metadata": {"id": "p1", "title": "Legacy"},
  "graphs": {
    "g1": {
      "metadata": {"id": "g1", "name": "Main"},
      "nodes": [
        {"id": "a", "type": "text", "title": "Prompt", "visualData": {"x": 0, "y": 0}, "data": {"text": "hi"}},
        {"id": "b", "type": "chat", "title": "Chat", "visualData": {"x": 200, "y": 0}}
      ],
      "connections": [
        {"outputNodeId": "a", "outputId": "output", "inputNodeId": "b", "inputId": "prompt"}
      ]
    }
  }
}
`

// execute runs the CLI with args and returns its command output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output missing %q:\n%s", w, got)
		}
	}
}

func TestNewAndInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")

	out, err := execute(t, "new", path, "--title", "Demo")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	assertContains(t, out, "Created project", "Demo", path)

	out, err = execute(t, "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	assertContains(t, out, "Kind", "project", "Version", "v4", "Demo", "Main Graph", "none")
	if strings.Contains(out, "migrate") {
		t.Errorf("current file should not suggest migration:\n%s", out)
	}
}

func TestNewRefusesOverwrite(t *testing.T) {
	path := writeFile(t, t.TempDir(), "project.yaml", "keep me")

	_, err := execute(t, "new", path)
	if !gferrors.Is(err, gferrors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
	if raw, _ := os.ReadFile(path); string(raw) != "keep me" {
		t.Errorf("file overwritten: %q", raw)
	}

	if _, err := execute(t, "new", path, "--force"); err != nil {
		t.Fatalf("new --force: %v", err)
	}
}

func TestInspectLegacyProject(t *testing.T) {
	path := writeFile(t, t.TempDir(), "legacy.json", legacyProject)

	out, err := execute(t, "inspect", path, "--nodes")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	assertContains(t, out,
		"v1",
		"Rejected by", "v4 (schema)", "v3 (schema)", "v2 (schema)",
		"Legacy", "Prompt", "chat",
		"migrate "+path,
	)
}

func TestInspectDatasets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	if err := gfio.ExportDatasets(sampleDatasets(), path); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	assertContains(t, out, "datasets", "v4", "Questions", "d1")
}

func TestInspectUnreadable(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", "just some text")

	_, err := execute(t, "inspect", path)
	if !gferrors.Is(err, gferrors.ErrCodeInvalidDocument) {
		t.Fatalf("code = %s, want %s (err = %v)", gferrors.GetCode(err), gferrors.ErrCodeInvalidDocument, err)
	}
	for _, sentinel := range []error{
		serialization.ErrUnreadableProject,
		serialization.ErrUnreadableGraph,
		serialization.ErrUnreadableDatasets,
	} {
		if !errors.Is(err, sentinel) {
			t.Errorf("errors.Is(err, %v) = false", sentinel)
		}
	}
}

func TestInspectMissingFile(t *testing.T) {
	_, err := execute(t, "inspect", filepath.Join(t.TempDir(), "absent.yaml"))
	if !gferrors.Is(err, gferrors.ErrCodeFileNotFound) {
		t.Fatalf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestMigrateInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "legacy.json", legacyProject)

	out, err := execute(t, "migrate", path, "--backup")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	assertContains(t, out, "Migrated project from v1 to v4")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, err := serialization.DetectProjectVersion(raw); err != nil || v != serialization.V4 {
		t.Fatalf("migrated version = %q, %v; want v4", v, err)
	}
	backup, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if string(backup) != legacyProject {
		t.Error("backup differs from the original file")
	}

	p, _, err := gfio.ImportProject(path)
	if err != nil {
		t.Fatal(err)
	}
	g, ok := p.Graph("g1")
	if !ok || len(g.Nodes) != 2 || len(g.Connections) != 1 {
		t.Fatalf("migrated graph = %+v", g)
	}
	if p.Metadata.MainGraphID != "g1" {
		t.Errorf("MainGraphID = %q, want g1", p.Metadata.MainGraphID)
	}
}

func TestMigrateBackupFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "legacy.json", legacyProject)
	cfg := writeFile(t, dir, "config.toml", "[migrate]\nbackup = true\n")

	if _, err := execute(t, "--config", cfg, "migrate", path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("config backup not honoured: %v", err)
	}
}

func TestMigrateAlreadyCurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	if _, err := execute(t, "new", path); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(path)

	out, err := execute(t, "migrate", path)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	assertContains(t, out, "already a project v4 file")
	if after, _ := os.ReadFile(path); !bytes.Equal(before, after) {
		t.Error("current file was rewritten")
	}
}

func TestMigrateToStdout(t *testing.T) {
	path := writeFile(t, t.TempDir(), "legacy.json", legacyProject)

	out, err := execute(t, "migrate", path, "-o", "-")
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if v, err := serialization.DetectProjectVersion([]byte(out)); err != nil || v != serialization.V4 {
		t.Fatalf("stdout version = %q, %v; want v4\n%s", v, err, out)
	}
	if raw, _ := os.ReadFile(path); string(raw) != legacyProject {
		t.Error("input modified by -o -")
	}
}

func TestGraphExportImport(t *testing.T) {
	dir := t.TempDir()
	legacy := writeFile(t, dir, "legacy.json", legacyProject)
	graphPath := filepath.Join(dir, "g1.yaml")
	target := filepath.Join(dir, "target.yaml")

	out, err := execute(t, "graph", "export", legacy, "g1", "-o", graphPath)
	if err != nil {
		t.Fatalf("graph export: %v", err)
	}
	assertContains(t, out, "Exported graph", "2 nodes", "1 connections")
	if v, err := detectGraphFile(graphPath); err != nil || v != serialization.V4 {
		t.Fatalf("exported graph version = %q, %v", v, err)
	}

	if _, err := execute(t, "new", target, "--title", "Target"); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, "graph", "import", target, graphPath, "--main")
	if err != nil {
		t.Fatalf("graph import: %v", err)
	}
	assertContains(t, out, "Added graph", "g1")

	p, _, err := gfio.ImportProject(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Graphs) != 2 {
		t.Fatalf("graphs = %d, want 2", len(p.Graphs))
	}
	if p.Metadata.MainGraphID != "g1" || p.MainGraph().Metadata.Name != "Main" {
		t.Errorf("main graph = %q", p.Metadata.MainGraphID)
	}

	out, err = execute(t, "graph", "import", target, graphPath, "--id", "copy")
	if err != nil {
		t.Fatalf("graph import --id: %v", err)
	}
	assertContains(t, out, "Added graph", "copy")

	out, err = execute(t, "graph", "import", target, graphPath)
	if err != nil {
		t.Fatalf("graph import again: %v", err)
	}
	assertContains(t, out, "Replaced graph")
}

func detectGraphFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return serialization.DetectGraphVersion(raw)
}

func TestGraphExportErrors(t *testing.T) {
	legacy := writeFile(t, t.TempDir(), "legacy.json", legacyProject)

	tests := []struct {
		name string
		id   string
		code gferrors.Code
	}{
		{"unknown graph", "g9", gferrors.ErrCodeGraphNotFound},
		{"invalid id", "a b", gferrors.ErrCodeInvalidID},
		{"reserved character", "a/b", gferrors.ErrCodeInvalidID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "graph", "export", legacy, tt.id, "-o", "-")
			if !gferrors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s (err = %v)", gferrors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestRenderDOT(t *testing.T) {
	legacy := writeFile(t, t.TempDir(), "legacy.json", legacyProject)

	out, err := execute(t, "render", legacy, "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, out, "digraph G {", `"a" [label="Prompt"];`, `"a" -> "b";`)
}

func TestRenderUsesConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	legacy := writeFile(t, dir, "legacy.json", legacyProject)
	cfg := writeFile(t, dir, "config.toml", "[render]\ndetailed = true\nformat = \"dot\"\n")

	out, err := execute(t, "--config", cfg, "render", legacy)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := filepath.Join(dir, "legacy.dot")
	assertContains(t, out, "Rendered", want)

	raw, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, string(raw), "text (a)", "output → prompt")
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	legacy := writeFile(t, dir, "legacy.json", legacyProject)
	datasets := filepath.Join(dir, "datasets.yaml")
	if err := gfio.ExportDatasets(sampleDatasets(), datasets); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code gferrors.Code
	}{
		{"unknown graph", []string{"render", legacy, "--graph", "nope", "-f", "dot"}, gferrors.ErrCodeGraphNotFound},
		{"bad format", []string{"render", legacy, "-f", "gif"}, gferrors.ErrCodeInvalidInput},
		{"datasets file", []string{"render", datasets, "-f", "dot"}, gferrors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !gferrors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s (err = %v)", gferrors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestDatasetsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	if err := gfio.ExportDatasets(sampleDatasets(), path); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "datasets", path, "--rows")
	if err != nil {
		t.Fatalf("datasets: %v", err)
	}
	assertContains(t, out, "Questions", "What is Go?", "r1", "r2", "3")
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	legacy := writeFile(t, dir, "legacy.json", legacyProject)

	_, err := execute(t, "--config", filepath.Join(dir, "absent.toml"), "inspect", legacy)
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("missing config: err = %v", err)
	}

	bad := writeFile(t, dir, "bad.toml", "[render]\nformat = \"gif\"\n")
	_, err = execute(t, "--config", bad, "inspect", legacy)
	if !gferrors.Is(err, gferrors.ErrCodeInvalidConfig) {
		t.Errorf("invalid config: err = %v", err)
	}
}

func TestVersionListsSchemas(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, out, appName+" version", "schemas: v4, v3, v2, v1")
}

func TestLogLevelFromConfig(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg := writeFile(t, dir, "config.toml", "[log]\nlevel = \"debug\"\n")
	legacy := writeFile(t, dir, "legacy.json", legacyProject)

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&bytes.Buffer{})
	root := c.RootCommand()
	root.SetArgs([]string{"--config", cfg, "inspect", legacy})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
	if log.Default() != c.Logger {
		t.Error("CLI logger not installed as default")
	}
	assertContains(t, logs.String(), "failed to deserialize", "version=v4")
}

func sampleDatasets() []project.CombinedDataset {
	return []project.CombinedDataset{{
		Meta: project.DatasetMetadata{ID: "d1", ProjectID: "p1", Name: "Questions", Description: "eval set"},
		Data: project.Dataset{ID: "d1", Rows: []project.DatasetRow{
			{ID: "r1", Data: []string{"What is Go?", "A language"}, Embedding: []float64{0.1, 0.2, 0.3}},
			{ID: "r2", Data: []string{"Why?"}},
		}},
	}}
}
