package prompt_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scaffold/pkg/prompt"
	"github.com/goliatone/go-scaffold/pkg/values"
)

func promptSchema() values.Schema {
	return values.Schema{Keys: []values.KeySpec{
		{Name: "project_name", Prompt: "Project name", Pattern: `^[A-Za-z][\w -]*$`},
		{Name: "use_docs", Kind: values.KindBool, Default: true},
		{Name: "command_line_interface", Kind: values.KindChoice, Choices: []string{"none", "click", "typer"}, Default: "none"},
	}}
}

func TestAskWalksSchemaInOrder(t *testing.T) {
	script := &prompt.Script{
		Inputs:     []string{"Demo Project"},
		Confirms:   []bool{false},
		Selections: []int{1},
	}

	got, err := prompt.Ask(context.Background(), promptSchema(), nil, script)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}

	want := map[string]any{
		"project_name":           "Demo Project",
		"use_docs":               false,
		"command_line_interface": "click",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
}

func TestAskSkipsPresetKeys(t *testing.T) {
	script := &prompt.Script{
		Confirms:   []bool{true},
		Selections: []int{2},
	}

	preset := map[string]any{"project_name": "Preset Name"}
	got, err := prompt.Ask(context.Background(), promptSchema(), preset, script)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if got["project_name"] != "Preset Name" {
		t.Fatalf("preset key was re-prompted: %v", got["project_name"])
	}
	if got["command_line_interface"] != "typer" {
		t.Fatalf("unexpected selection: %v", got["command_line_interface"])
	}
}

func TestAskValidatesPattern(t *testing.T) {
	script := &prompt.Script{
		Inputs:     []string{"0 starts with a digit"},
		Confirms:   []bool{true},
		Selections: []int{0},
	}

	_, err := prompt.Ask(context.Background(), promptSchema(), nil, script)
	if err == nil || !strings.Contains(err.Error(), "must match") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAskRejectsOutOfRangeSelection(t *testing.T) {
	script := &prompt.Script{
		Inputs:     []string{"Demo"},
		Confirms:   []bool{true},
		Selections: []int{9},
	}

	_, err := prompt.Ask(context.Background(), promptSchema(), nil, script)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestAskFailsWhenScriptRunsDry(t *testing.T) {
	script := &prompt.Script{}
	_, err := prompt.Ask(context.Background(), promptSchema(), nil, script)
	if err == nil {
		t.Fatalf("expected error when the script has no answers")
	}
}
