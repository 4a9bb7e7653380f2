package render

import (
	"strings"

	"github.com/goliatone/go-scaffold/pkg/engine"
)

// PathRenderer resolves tokens embedded in template-relative paths. Each
// segment renders independently, so a token affects only its own segment and
// can never introduce a path separator.
type PathRenderer struct {
	engine engine.Renderer
}

// NewPathRenderer wires a path renderer to the given engine.
func NewPathRenderer(eng engine.Renderer) *PathRenderer {
	return &PathRenderer{engine: eng}
}

// Path renders every segment of rel against data. A segment that renders to
// the empty string (or only whitespace) collapses: it is dropped and its
// children re-parent one level up. The second return is false when the entire
// path collapsed.
//
// A segment that still contains token syntax after rendering, or whose
// rendering introduces a separator, fails with *TemplateError.
func (r *PathRenderer) Path(rel string, data map[string]any) (string, bool, error) {
	segments := strings.Split(rel, "/")
	out := make([]string, 0, len(segments))

	for _, segment := range segments {
		rendered := segment
		if hasToken(segment) {
			var err error
			rendered, err = r.engine.RenderString(segment, data)
			if err != nil {
				return "", false, &TemplateError{Path: rel, Token: segment, Err: err}
			}
		}
		// Only the collapse test ignores whitespace; a surviving segment
		// keeps its rendered bytes exactly.
		if strings.TrimSpace(rendered) == "" {
			continue
		}
		if hasToken(rendered) {
			return "", false, &TemplateError{Path: rel, Token: rendered}
		}
		if strings.Contains(rendered, "/") {
			return "", false, &TemplateError{Path: rel, Token: segment}
		}
		out = append(out, rendered)
	}

	if len(out) == 0 {
		return "", false, nil
	}
	return strings.Join(out, "/"), true, nil
}

// hasToken reports whether s carries template syntax the engine would act on,
// or leftovers it failed to resolve.
func hasToken(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%") ||
		strings.Contains(s, "}}") || strings.Contains(s, "%}")
}
