// Package include decides, per template entry, whether it survives into the
// output tree. Decisions are declared as path-pattern → condition rules and
// evaluated against template-relative paths, so renames during path rendering
// never destabilise the rule table.
package include

import (
	"fmt"

	"github.com/goliatone/go-scaffold/internal/pathmatch"
)

// Rule pairs a path pattern with a condition source string.
type Rule struct {
	Pattern string
	When    string
}

type compiledRule struct {
	pattern   string
	condition *Condition
}

// RuleSet is a compiled, immutable set of inclusion rules.
type RuleSet struct {
	rules []compiledRule
}

// Compile parses every rule condition up front so malformed manifests fail
// before any rendering starts.
func Compile(rules []Rule) (*RuleSet, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		condition, err := ParseCondition(rule.When)
		if err != nil {
			return nil, fmt.Errorf("include: rule %q: %w", rule.Pattern, err)
		}
		compiled = append(compiled, compiledRule{pattern: rule.Pattern, condition: condition})
	}
	return &RuleSet{rules: compiled}, nil
}

// Include reports whether the entry at the template-relative path survives
// under the given context values. Every rule whose pattern matches must hold
// (AND composition); a path with no matching rule is included.
func (s *RuleSet) Include(templatePath string, data map[string]any) (bool, error) {
	if s == nil {
		return true, nil
	}
	for _, rule := range s.rules {
		if !pathmatch.Match(rule.pattern, templatePath) {
			continue
		}
		ok, err := rule.condition.Eval(data)
		if err != nil {
			return false, fmt.Errorf("include: path %q: %w", templatePath, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
