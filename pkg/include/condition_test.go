package include_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-scaffold/pkg/include"
)

func TestConditionEval(t *testing.T) {
	data := map[string]any{
		"command_line_interface": "click",
		"use_docs":               true,
		"workers":                4,
		"project_name":           "demo",
		"empty":                  "",
	}

	cases := []struct {
		source string
		want   bool
	}{
		{`command_line_interface == "click"`, true},
		{`command_line_interface == 'typer'`, false},
		{`command_line_interface != "none"`, true},
		{"use_docs", true},
		{"use_docs == true", true},
		{"use_docs == false", false},
		{"!use_docs", false},
		{"workers == 4", true},
		{"workers != 4", false},
		{"empty", false},
		{"project_name", true},
		{`use_docs && command_line_interface == "click"`, true},
		{`!use_docs || command_line_interface == "click"`, true},
		{`!use_docs && command_line_interface == "click"`, false},
		{`(use_docs || empty) && workers == 4`, true},
	}

	for _, tc := range cases {
		condition, err := include.ParseCondition(tc.source)
		if err != nil {
			t.Errorf("parse %q: %v", tc.source, err)
			continue
		}
		got, err := condition.Eval(data)
		if err != nil {
			t.Errorf("eval %q: %v", tc.source, err)
			continue
		}
		if got != tc.want {
			t.Errorf("eval %q = %v, want %v", tc.source, got, tc.want)
		}
	}
}

func TestConditionUnknownKey(t *testing.T) {
	condition, err := include.ParseCondition(`cli == "click"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = condition.Eval(map[string]any{"other": "x"})
	if err == nil || !strings.Contains(err.Error(), `"cli"`) {
		t.Fatalf("expected unknown-key error naming the key, got %v", err)
	}
}

func TestParseConditionErrors(t *testing.T) {
	cases := []string{
		"",
		"   ",
		`cli = "click"`,
		`cli == "unterminated`,
		"cli &&",
		"(cli",
		"cli == ",
		"a b",
	}

	for _, source := range cases {
		if _, err := include.ParseCondition(source); err == nil {
			t.Errorf("ParseCondition(%q) succeeded, want error", source)
		}
	}
}

func TestConditionString(t *testing.T) {
	condition, err := include.ParseCondition("  use_docs  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if condition.String() != "use_docs" {
		t.Fatalf("String() = %q", condition.String())
	}
}
