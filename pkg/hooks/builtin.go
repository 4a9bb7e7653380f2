package hooks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/goliatone/go-scaffold/pkg/answers"
	"github.com/goliatone/go-scaffold/pkg/values"
)

// Built-in hook names a manifest may list.
const (
	HookDropCLI      = "drop-cli"
	HookGitInit      = "git-init"
	HookWriteAnswers = "write-answers"
)

// Defaults returns a registry holding the built-in hooks.
func Defaults() *Registry {
	registry := NewRegistry()
	registry.MustRegister(Func(HookDropCLI, dropCLI))
	registry.MustRegister(Func(HookGitInit, gitInit))
	registry.MustRegister(Func(HookWriteAnswers, writeAnswers))
	return registry
}

// dropCLI removes the generated CLI entry point when the context declined a
// command-line interface. Inclusion rules normally cover this statically; the
// hook backstops templates that gate the file on a rendered value instead.
func dropCLI(_ context.Context, env Env) error {
	choice, err := env.Context.String("command_line_interface")
	if err != nil {
		var unknown *values.UnknownKeyError
		if errors.As(err, &unknown) {
			return nil
		}
		return err
	}
	if choice != "none" {
		return nil
	}

	slug, err := env.Context.String("project_slug")
	if err != nil {
		return err
	}

	cliPath := filepath.Join(env.Root, "src", slug, "cli.py")
	if err := os.Remove(cliPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", cliPath, err)
	}
	return nil
}

// gitInit initialises a version-control repository in the project root. A
// root that is already a repository is left alone.
func gitInit(ctx context.Context, env Env) error {
	if _, err := os.Stat(filepath.Join(env.Root, ".git")); err == nil {
		return nil
	}

	cmd := exec.CommandContext(ctx, "git", "init")
	cmd.Dir = env.Root
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %w: %s", err, out)
	}
	return nil
}

// writeAnswers records the final context inside the project so downstream
// tooling can regenerate without re-prompting.
func writeAnswers(_ context.Context, env Env) error {
	name, err := env.Context.String("answers_file")
	if err != nil {
		return err
	}
	return answers.Write(filepath.Join(env.Root, name), "", env.Context)
}
