// Package answers records the context used for a materialization so a project
// can be regenerated without re-prompting.
package answers

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-scaffold/pkg/values"
)

// File is the on-disk answers document. Direct keys round-trip exactly;
// computed keys are re-derived on load and deliberately not recorded.
type File struct {
	Template string         `yaml:"_template,omitempty"`
	Answers  map[string]any `yaml:"answers"`
}

// Write persists the direct keys of ctx to path. template names the source
// template for provenance and may be empty.
func Write(path, template string, ctx *values.Context) error {
	doc := File{
		Template: template,
		Answers:  ctx.Direct(),
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("answers: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("answers: create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("answers: write %s: %w", path, err)
	}
	return nil
}

// Load reads a previously recorded answers file. The returned map feeds
// straight into values.Build as direct values.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("answers: read %s: %w", path, err)
	}
	var doc File
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("answers: parse %s: %w", path, err)
	}
	if doc.Answers == nil {
		doc.Answers = map[string]any{}
	}
	return &doc, nil
}
