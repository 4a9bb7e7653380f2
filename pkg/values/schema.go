package values

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind enumerates the value types a declared key may take.
type Kind string

const (
	// KindString accepts any string value.
	KindString Kind = "string"
	// KindBool accepts true/false.
	KindBool Kind = "bool"
	// KindChoice accepts one string out of a declared choice set.
	KindChoice Kind = "choice"
)

// KeySpec declares one context key: its type, default, allowed choices, the
// prompt shown to interactive callers, and an optional validation pattern.
type KeySpec struct {
	Name    string
	Kind    Kind
	Default any
	Choices []string
	Prompt  string
	Pattern string
}

// Required reports whether the key must be supplied by the caller because no
// default was declared.
func (k KeySpec) Required() bool {
	return k.Default == nil
}

// Schema is the ordered set of declared keys for a template.
type Schema struct {
	Keys []KeySpec
}

// Key returns the spec declared under name.
func (s Schema) Key(name string) (KeySpec, bool) {
	for _, key := range s.Keys {
		if key.Name == name {
			return key, true
		}
	}
	return KeySpec{}, false
}

// Validate checks the schema itself is coherent: non-empty unique names,
// known kinds, choice keys carrying choices, and defaults inside the declared
// choice set. An empty kind counts as string.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Keys))
	for _, key := range s.Keys {
		name := strings.TrimSpace(key.Name)
		if name == "" {
			return fmt.Errorf("values: schema declares a key with an empty name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("values: schema declares key %q twice", name)
		}
		seen[name] = struct{}{}

		switch key.Kind {
		case "", KindString, KindBool, KindChoice:
		default:
			return fmt.Errorf("values: key %q has unknown kind %q", name, key.Kind)
		}

		if key.Kind == KindChoice && len(key.Choices) == 0 {
			return fmt.Errorf("values: choice key %q declares no choices", name)
		}
		if key.Kind != KindChoice && len(key.Choices) > 0 {
			return fmt.Errorf("values: key %q declares choices but is not a choice key", name)
		}
		if key.Kind == KindChoice && key.Default != nil {
			def, ok := key.Default.(string)
			if !ok || !contains(key.Choices, def) {
				return fmt.Errorf("values: key %q default %v is outside its choice set", name, key.Default)
			}
		}
		if key.Pattern != "" {
			if _, err := regexp.Compile(key.Pattern); err != nil {
				return fmt.Errorf("values: key %q pattern: %w", name, err)
			}
		}
	}
	return nil
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
