// Package prompt collects context answers interactively, walking the declared
// key schema in order.
package prompt

import (
	"context"
	"fmt"
	"regexp"

	"github.com/goliatone/go-scaffold/pkg/values"
)

// Ask prompts for every declared key not already present in preset and
// returns the combined direct-value map. Defaults come from the schema;
// choice keys present their declared options; string keys with a pattern are
// validated inline so the user can retry instead of failing the build later.
func Ask(ctx context.Context, schema values.Schema, preset map[string]any, driver Driver) (map[string]any, error) {
	out := make(map[string]any, len(schema.Keys))
	for key, value := range preset {
		out[key] = value
	}

	for _, key := range schema.Keys {
		if _, have := out[key.Name]; have {
			continue
		}

		message := key.Prompt
		if message == "" {
			message = key.Name
		}

		switch key.Kind {
		case values.KindBool:
			def, _ := key.Default.(bool)
			answer, err := driver.Confirm(ctx, ConfirmConfig{Message: message, Default: def})
			if err != nil {
				return nil, err
			}
			out[key.Name] = answer

		case values.KindChoice:
			defIndex := 0
			if def, ok := key.Default.(string); ok {
				for i, choice := range key.Choices {
					if choice == def {
						defIndex = i
						break
					}
				}
			}
			index, err := driver.Select(ctx, SelectConfig{
				Message:      message,
				Options:      key.Choices,
				DefaultIndex: defIndex,
			})
			if err != nil {
				return nil, err
			}
			if index < 0 || index >= len(key.Choices) {
				return nil, fmt.Errorf("prompt: key %q: selection out of range", key.Name)
			}
			out[key.Name] = key.Choices[index]

		default:
			def, _ := key.Default.(string)
			cfg := InputConfig{Message: message, Default: def}
			if key.Pattern != "" {
				re, err := regexp.Compile(key.Pattern)
				if err != nil {
					return nil, fmt.Errorf("prompt: key %q pattern: %w", key.Name, err)
				}
				cfg.Validator = func(s string) error {
					if !re.MatchString(s) {
						return fmt.Errorf("value must match %s", re)
					}
					return nil
				}
			}
			answer, err := driver.Input(ctx, cfg)
			if err != nil {
				return nil, err
			}
			out[key.Name] = answer
		}
	}
	return out, nil
}

// Script is a Driver fed from canned answers, for tests and non-terminal
// callers. Answers are consumed in schema order.
type Script struct {
	Inputs     []string
	Confirms   []bool
	Selections []int

	inputPos   int
	confirmPos int
	selectPos  int
}

func (s *Script) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.Inputs) {
		return "", fmt.Errorf("prompt: script has no input for %q", cfg.Message)
	}
	answer := s.Inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", fmt.Errorf("prompt: scripted input %q: %w", answer, err)
		}
	}
	return answer, nil
}

func (s *Script) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.Confirms) {
		return false, fmt.Errorf("prompt: script has no confirmation for %q", cfg.Message)
	}
	answer := s.Confirms[s.confirmPos]
	s.confirmPos++
	return answer, nil
}

func (s *Script) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.Selections) {
		return 0, fmt.Errorf("prompt: script has no selection for %q", cfg.Message)
	}
	answer := s.Selections[s.selectPos]
	s.selectPos++
	return answer, nil
}
