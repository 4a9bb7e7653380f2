package scaffold

import (
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-scaffold/pkg/values"
)

// ManifestName is the declaration file expected at the template root.
const ManifestName = "scaffold.yaml"

// Manifest is the parsed template declaration: the key schema, inclusion
// rules, verbatim-copy patterns, skip patterns, and the ordered hook list.
type Manifest struct {
	Keys     []KeyDecl      `yaml:"keys"`
	Include  []IncludeDecl  `yaml:"include"`
	Verbatim []string       `yaml:"verbatim"`
	Skip     []string       `yaml:"skip"`
	Hooks    []string       `yaml:"hooks"`
}

// KeyDecl declares one context key in the manifest.
type KeyDecl struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Default *string  `yaml:"default"`
	Choices []string `yaml:"choices"`
	Prompt  string   `yaml:"prompt"`
	Pattern string   `yaml:"pattern"`
}

// IncludeDecl pairs a template-relative path pattern with a condition over the
// context. A path matched by the pattern survives only while the condition
// holds; paths with no matching declaration are always included.
type IncludeDecl struct {
	Path string `yaml:"path"`
	When string `yaml:"when"`
}

// LoadManifest reads and normalises the template declaration from fsys. A
// missing manifest is an error: a template without declared keys cannot build
// a context.
func LoadManifest(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("scaffold: read %s: %w", ManifestName, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("scaffold: parse %s: %w", ManifestName, err)
	}
	if err := manifest.normalise(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// Schema converts the declared keys into a values.Schema.
func (m *Manifest) Schema() values.Schema {
	keys := make([]values.KeySpec, 0, len(m.Keys))
	for _, decl := range m.Keys {
		spec := values.KeySpec{
			Name:    decl.Name,
			Kind:    values.Kind(decl.Kind),
			Choices: decl.Choices,
			Prompt:  decl.Prompt,
			Pattern: decl.Pattern,
		}
		if decl.Default != nil {
			if spec.Kind == values.KindBool {
				spec.Default = strings.EqualFold(*decl.Default, "true")
			} else {
				spec.Default = *decl.Default
			}
		}
		keys = append(keys, spec)
	}
	return values.Schema{Keys: keys}
}

func (m *Manifest) normalise() error {
	seen := make(map[string]struct{}, len(m.Keys))
	for i := range m.Keys {
		decl := &m.Keys[i]
		decl.Name = strings.TrimSpace(decl.Name)
		if decl.Name == "" {
			return fmt.Errorf("scaffold: %s declares a key with an empty name", ManifestName)
		}
		if _, dup := seen[decl.Name]; dup {
			return fmt.Errorf("scaffold: %s declares key %q twice", ManifestName, decl.Name)
		}
		seen[decl.Name] = struct{}{}

		decl.Kind = strings.TrimSpace(decl.Kind)
		if decl.Kind == "" {
			decl.Kind = string(values.KindString)
		}
	}

	for i := range m.Include {
		decl := &m.Include[i]
		decl.Path = strings.TrimSpace(decl.Path)
		if decl.Path == "" {
			return fmt.Errorf("scaffold: %s declares an include rule with an empty path", ManifestName)
		}
		if strings.TrimSpace(decl.When) == "" {
			return fmt.Errorf("scaffold: include rule for %q has an empty condition", decl.Path)
		}
	}

	m.Verbatim = trimPatterns(m.Verbatim)
	m.Skip = trimPatterns(m.Skip)

	for i, name := range m.Hooks {
		m.Hooks[i] = strings.TrimSpace(name)
		if m.Hooks[i] == "" {
			return fmt.Errorf("scaffold: %s declares an empty hook name", ManifestName)
		}
	}
	return nil
}

func trimPatterns(patterns []string) []string {
	out := patterns[:0]
	for _, p := range patterns {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
