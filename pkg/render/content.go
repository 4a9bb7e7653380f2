package render

import (
	"github.com/goliatone/go-scaffold/internal/pathmatch"
	"github.com/goliatone/go-scaffold/pkg/engine"
	"github.com/goliatone/go-scaffold/pkg/engine/pongo"
)

// ContentRenderer resolves tokens in template file contents. A file whose path
// matches a verbatim pattern is copied byte for byte; every other file passes
// through the engine. Files without template syntax skip the engine entirely,
// which keeps binary assets intact even when they are not listed verbatim.
type ContentRenderer struct {
	engine   engine.Renderer
	verbatim []string
}

// NewContentRenderer wires a content renderer to the given engine and
// verbatim-copy patterns.
func NewContentRenderer(eng engine.Renderer, verbatim []string) *ContentRenderer {
	return &ContentRenderer{engine: eng, verbatim: verbatim}
}

// Content renders raw against data. Engine failures wrap into *TemplateError
// carrying path and, when the engine reports one, the offending line.
func (r *ContentRenderer) Content(path string, raw []byte, data map[string]any) ([]byte, error) {
	for _, pattern := range r.verbatim {
		if pathmatch.Match(pattern, path) {
			return raw, nil
		}
	}

	text := string(raw)
	if !hasToken(text) {
		return raw, nil
	}

	rendered, err := r.engine.RenderString(text, data)
	if err != nil {
		return nil, &TemplateError{Path: path, Line: pongo.Line(err), Err: err}
	}
	return []byte(rendered), nil
}
