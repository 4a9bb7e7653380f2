package pongo_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-scaffold/pkg/engine/pongo"
)

func TestNewConstructsEngine(t *testing.T) {
	eng, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if eng == nil {
		t.Fatalf("expected a usable engine")
	}
}

func TestRenderStringSubstitutesValues(t *testing.T) {
	eng, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := eng.RenderString("hello {{ name }}", map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "hello world" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderStringConditionalBlocks(t *testing.T) {
	eng, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	tpl := "{% if cli != \"none\" %}with cli{% else %}no cli{% endif %}"

	out, err := eng.RenderString(tpl, map[string]any{"cli": "click"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "with cli" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = eng.RenderString(tpl, map[string]any{"cli": "none"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "no cli" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderStringMalformedTemplate(t *testing.T) {
	eng, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if _, err := eng.RenderString("{% endif %}", nil); err == nil {
		t.Fatalf("expected a parse error for a stray endif")
	}
}

func TestGlobalContextAvailableToEveryRender(t *testing.T) {
	eng, err := pongo.New(pongo.WithGlobalData(map[string]any{"year": 2026}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := eng.RenderString("copyright {{ year }}", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "copyright 2026" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSlugifyFilter(t *testing.T) {
	eng, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := eng.RenderString("{{ name|slugify }}", map[string]any{"name": "My Cool-Project"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "my_cool_project" {
		t.Fatalf("unexpected slug %q", out)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Project":          "my_project",
		"already_slugged":     "already_slugged",
		"dash-and.dot mix":    "dash_and_dot_mix",
		"  padded  name  ":    "padded_name",
		"Multi   Separators!": "multi_separators",
	}
	for in, want := range cases {
		if got := pongo.Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegisterFilterRejectsDuplicates(t *testing.T) {
	eng, err := pongo.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if err := eng.RegisterFilter("slugify", func(in any, _ any) (any, error) { return in, nil }); err == nil {
		t.Fatalf("expected duplicate filter registration to fail")
	}
	if err := eng.RegisterFilter("", nil); err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("expected validation error, got %v", err)
	}
}
