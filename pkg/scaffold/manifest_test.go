package scaffold_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-scaffold/pkg/scaffold"
	"github.com/goliatone/go-scaffold/pkg/values"
)

const sampleManifest = `
keys:
  - name: project_name
    prompt: Project name
    default: My Project
  - name: use_docs
    kind: bool
    default: "true"
  - name: command_line_interface
    kind: choice
    choices: [none, click, typer]
    default: none
include:
  - path: "**/src/*/cli.py"
    when: 'command_line_interface != "none"'
verbatim:
  - "*.lock"
skip:
  - ".git"
hooks: [drop-cli, write-answers]
`

func templateFS(manifest string) fstest.MapFS {
	return fstest.MapFS{
		scaffold.ManifestName: &fstest.MapFile{Data: []byte(manifest)},
	}
}

func TestLoadManifest(t *testing.T) {
	manifest, err := scaffold.LoadManifest(templateFS(sampleManifest))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(manifest.Keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(manifest.Keys))
	}
	if manifest.Keys[0].Kind != string(values.KindString) {
		t.Fatalf("kind should default to string, got %q", manifest.Keys[0].Kind)
	}
	if got := manifest.Hooks; len(got) != 2 || got[0] != "drop-cli" {
		t.Fatalf("unexpected hooks %v", got)
	}
}

func TestManifestSchemaConversion(t *testing.T) {
	manifest, err := scaffold.LoadManifest(templateFS(sampleManifest))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	schema := manifest.Schema()
	if err := schema.Validate(); err != nil {
		t.Fatalf("converted schema invalid: %v", err)
	}

	docs, ok := schema.Key("use_docs")
	if !ok {
		t.Fatalf("use_docs missing from schema")
	}
	if docs.Default != true {
		t.Fatalf("bool default not converted, got %v", docs.Default)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := scaffold.LoadManifest(fstest.MapFS{})
	if err == nil || !strings.Contains(err.Error(), scaffold.ManifestName) {
		t.Fatalf("expected missing manifest error, got %v", err)
	}
}

func TestLoadManifestRejectsDuplicateKeys(t *testing.T) {
	_, err := scaffold.LoadManifest(templateFS(`
keys:
  - name: a
  - name: a
`))
	if err == nil || !strings.Contains(err.Error(), "twice") {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestLoadManifestRejectsEmptyCondition(t *testing.T) {
	_, err := scaffold.LoadManifest(templateFS(`
keys:
  - name: a
include:
  - path: "cli.py"
    when: "  "
`))
	if err == nil || !strings.Contains(err.Error(), "empty condition") {
		t.Fatalf("expected empty condition error, got %v", err)
	}
}
