// Package hooks runs the fixed sequence of finishing steps applied to a
// materialized project. Hooks live outside the atomic materialization
// guarantee: a failing hook is reported with its identity but never rolls the
// tree back, and the remaining hooks still run.
package hooks

import (
	"context"
	"fmt"

	"github.com/goliatone/go-scaffold/pkg/logging"
	"github.com/goliatone/go-scaffold/pkg/values"
)

// Env is what a hook gets to work with: the root of the generated project and
// the context it was generated from.
type Env struct {
	Root    string
	Context *values.Context
}

// Hook is one named, idempotent finishing step.
type Hook interface {
	Name() string
	Run(ctx context.Context, env Env) error
}

// Func adapts a function into a named Hook.
func Func(name string, fn func(ctx context.Context, env Env) error) Hook {
	return funcHook{name: name, fn: fn}
}

type funcHook struct {
	name string
	fn   func(ctx context.Context, env Env) error
}

func (h funcHook) Name() string { return h.name }

func (h funcHook) Run(ctx context.Context, env Env) error { return h.fn(ctx, env) }

// HookError reports a single hook failure.
type HookError struct {
	Hook string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hooks: %s: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// Run executes hooks in order. Every hook runs regardless of earlier
// failures; the returned slice holds one entry per failed hook.
func Run(ctx context.Context, env Env, list []Hook) []*HookError {
	log := logging.GetLogger("hooks")

	var failures []*HookError
	for _, hook := range list {
		if hook == nil {
			continue
		}
		if err := hook.Run(ctx, env); err != nil {
			log.Warn().Err(err).Str("hook", hook.Name()).Msg("hook failed")
			failures = append(failures, &HookError{Hook: hook.Name(), Err: err})
			continue
		}
		log.Debug().Str("hook", hook.Name()).Msg("hook completed")
	}
	return failures
}
