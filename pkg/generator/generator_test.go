package generator_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scaffold/pkg/answers"
	"github.com/goliatone/go-scaffold/pkg/generator"
	"github.com/goliatone/go-scaffold/pkg/hooks"
	"github.com/goliatone/go-scaffold/pkg/materialize"
	"github.com/goliatone/go-scaffold/pkg/prompt"
	"github.com/goliatone/go-scaffold/pkg/values"
)

const templateDir = "testdata/template"

func fixedClock() time.Time {
	return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestGenerateWithDefaults(t *testing.T) {
	out := t.TempDir()
	gen := generator.New(generator.WithClock(fixedClock))

	result, err := gen.Generate(context.Background(), generator.Request{
		TemplateDir: templateDir,
		OutputDir:   out,
		Values:      map[string]any{"project_name": "Demo Project"},
		NoInput:     true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	wantRoot := filepath.Join(out, "demo_project")
	if result.OutputRoot != wantRoot {
		t.Fatalf("output root = %q, want %q", result.OutputRoot, wantRoot)
	}

	wantFiles := []string{
		"demo_project/README.md",
		"demo_project/docs/index.md",
		"demo_project/src/demo_project/__init__.py",
		"demo_project/uv.lock",
	}
	if diff := cmp.Diff(wantFiles, result.Files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	readme := readFile(t, filepath.Join(wantRoot, "README.md"))
	want := "# Demo Project\n\nCLI: none\n\nCopyright 2026\n"
	if readme != want {
		t.Fatalf("README mismatch:\n got %q\nwant %q", readme, want)
	}

	// CLI defaults to none, so the rule table drops the entry point.
	if _, err := os.Stat(filepath.Join(wantRoot, "src", "demo_project", "cli.py")); !os.IsNotExist(err) {
		t.Fatalf("cli.py should be excluded")
	}

	lock := readFile(t, filepath.Join(wantRoot, "uv.lock"))
	if lock != "locked {{ project_name }}\n" {
		t.Fatalf("verbatim file was rendered: %q", lock)
	}

	doc, err := answers.Load(filepath.Join(wantRoot, values.DefaultAnswersFile))
	if err != nil {
		t.Fatalf("load recorded answers: %v", err)
	}
	if doc.Answers["project_name"] != "Demo Project" {
		t.Fatalf("answers not recorded: %v", doc.Answers)
	}
}

func TestGenerateWithCLIChoice(t *testing.T) {
	out := t.TempDir()
	gen := generator.New(generator.WithClock(fixedClock))

	_, err := gen.Generate(context.Background(), generator.Request{
		TemplateDir: templateDir,
		OutputDir:   out,
		Values: map[string]any{
			"project_name":           "Demo Project",
			"command_line_interface": "click",
		},
		NoInput: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	cli := readFile(t, filepath.Join(out, "demo_project", "src", "demo_project", "cli.py"))
	if cli == "" || cli[:12] != "import click" {
		t.Fatalf("cli.py not rendered for click: %q", cli)
	}
}

func TestGeneratePromptsForMissingKeys(t *testing.T) {
	out := t.TempDir()
	script := &prompt.Script{
		Inputs:     []string{"Scripted Project"},
		Confirms:   []bool{false},
		Selections: []int{2},
	}
	gen := generator.New(
		generator.WithClock(fixedClock),
		generator.WithPromptDriver(script),
	)

	result, err := gen.Generate(context.Background(), generator.Request{
		TemplateDir: templateDir,
		OutputDir:   out,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	root := filepath.Join(out, "scripted_project")
	if result.OutputRoot != root {
		t.Fatalf("output root = %q", result.OutputRoot)
	}
	if _, err := os.Stat(filepath.Join(root, "docs")); !os.IsNotExist(err) {
		t.Fatalf("docs should be excluded when declined")
	}
	cli := readFile(t, filepath.Join(root, "src", "scripted_project", "cli.py"))
	if cli[:12] != "import typer" {
		t.Fatalf("cli.py not rendered for typer: %q", cli)
	}
}

func TestGenerateSeedsFromAnswersFile(t *testing.T) {
	out := t.TempDir()
	answersPath := filepath.Join(t.TempDir(), "answers.yml")
	recorded := "answers:\n  project_name: Recorded Name\n  command_line_interface: click\n"
	if err := os.WriteFile(answersPath, []byte(recorded), 0o644); err != nil {
		t.Fatalf("seed answers: %v", err)
	}

	gen := generator.New(generator.WithClock(fixedClock))
	_, err := gen.Generate(context.Background(), generator.Request{
		TemplateDir: templateDir,
		OutputDir:   out,
		AnswersFile: answersPath,
		Values:      map[string]any{"project_name": "Direct Wins"},
		NoInput:     true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	root := filepath.Join(out, "direct_wins")
	readme := readFile(t, filepath.Join(root, "README.md"))
	if readme[:14] != "# Direct Wins\n" {
		t.Fatalf("direct value should beat the answers file: %q", readme)
	}
	// command_line_interface came from the answers file.
	if _, err := os.Stat(filepath.Join(root, "src", "direct_wins", "cli.py")); err != nil {
		t.Fatalf("cli.py should exist: %v", err)
	}
}

func TestGenerateRefusesExistingDestination(t *testing.T) {
	out := t.TempDir()
	gen := generator.New(generator.WithClock(fixedClock))
	req := generator.Request{
		TemplateDir: templateDir,
		OutputDir:   out,
		Values:      map[string]any{"project_name": "Demo Project"},
		NoInput:     true,
	}

	if _, err := gen.Generate(context.Background(), req); err != nil {
		t.Fatalf("first run: %v", err)
	}

	_, err := gen.Generate(context.Background(), req)
	var existsErr *materialize.DestinationExistsError
	if !errors.As(err, &existsErr) {
		t.Fatalf("expected DestinationExistsError, got %v", err)
	}

	req.Overwrite = true
	if _, err := gen.Generate(context.Background(), req); err != nil {
		t.Fatalf("overwrite run: %v", err)
	}
}

func TestGenerateRejectsInvalidChoice(t *testing.T) {
	gen := generator.New(generator.WithClock(fixedClock))
	_, err := gen.Generate(context.Background(), generator.Request{
		TemplateDir: templateDir,
		OutputDir:   t.TempDir(),
		Values: map[string]any{
			"project_name":           "Demo Project",
			"command_line_interface": "cobra",
		},
		NoInput: true,
	})

	var choiceErr *values.InvalidChoiceError
	if !errors.As(err, &choiceErr) {
		t.Fatalf("expected InvalidChoiceError, got %v", err)
	}
}

func TestGenerateCollectsHookFailures(t *testing.T) {
	out := t.TempDir()
	registry := hooks.NewRegistry()
	registry.MustRegister(hooks.Func(hooks.HookWriteAnswers, func(context.Context, hooks.Env) error {
		return errors.New("disk full")
	}))

	gen := generator.New(
		generator.WithClock(fixedClock),
		generator.WithHookRegistry(registry),
	)
	result, err := gen.Generate(context.Background(), generator.Request{
		TemplateDir: templateDir,
		OutputDir:   out,
		Values:      map[string]any{"project_name": "Demo Project"},
		NoInput:     true,
	})

	if err == nil {
		t.Fatalf("expected summary error for failing hooks")
	}
	if result == nil || len(result.HookErrors) != 1 {
		t.Fatalf("expected one hook failure, got %+v", result)
	}
	// The tree survives hook failures.
	if _, statErr := os.Stat(filepath.Join(out, "demo_project", "README.md")); statErr != nil {
		t.Fatalf("materialized tree should survive hook failure: %v", statErr)
	}
}

func TestGenerateCustomComputedKey(t *testing.T) {
	out := t.TempDir()
	gen := generator.New(
		generator.WithClock(fixedClock),
		generator.WithComputed("greeting", func(c *values.Context) (any, error) {
			name, err := c.String("project_name")
			if err != nil {
				return nil, err
			}
			return "hello " + name, nil
		}),
	)

	_, err := gen.Generate(context.Background(), generator.Request{
		TemplateDir: templateDir,
		OutputDir:   out,
		Values:      map[string]any{"project_name": "Demo Project"},
		NoInput:     true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
}

func TestGenerateRequestValidation(t *testing.T) {
	gen := generator.New()
	if _, err := gen.Generate(context.Background(), generator.Request{OutputDir: "x"}); err == nil {
		t.Fatalf("missing template dir should fail")
	}
	if _, err := gen.Generate(context.Background(), generator.Request{TemplateDir: "x"}); err == nil {
		t.Fatalf("missing output dir should fail")
	}
}
