// Package generator coordinates the full pipeline from template directory to
// generated project: manifest loading, answer collection, context building,
// materialization, and post-generation hooks.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-scaffold/pkg/answers"
	"github.com/goliatone/go-scaffold/pkg/engine"
	"github.com/goliatone/go-scaffold/pkg/engine/pongo"
	"github.com/goliatone/go-scaffold/pkg/hooks"
	"github.com/goliatone/go-scaffold/pkg/include"
	"github.com/goliatone/go-scaffold/pkg/logging"
	"github.com/goliatone/go-scaffold/pkg/materialize"
	"github.com/goliatone/go-scaffold/pkg/prompt"
	"github.com/goliatone/go-scaffold/pkg/render"
	"github.com/goliatone/go-scaffold/pkg/scaffold"
	"github.com/goliatone/go-scaffold/pkg/values"
)

// Option customises the generator configuration.
type Option func(*Generator)

// WithEngine injects a custom templating engine.
func WithEngine(eng engine.Renderer) Option {
	return func(g *Generator) {
		g.engine = eng
	}
}

// WithHookRegistry injects a hook registry replacing the built-in defaults.
func WithHookRegistry(registry *hooks.Registry) Option {
	return func(g *Generator) {
		g.hooks = registry
	}
}

// WithPromptDriver injects the prompt driver used when a request allows
// interactive input.
func WithPromptDriver(driver prompt.Driver) Option {
	return func(g *Generator) {
		g.driver = driver
	}
}

// WithClock overrides the wall clock read at context construction.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		g.clock = clock
	}
}

// WithComputed registers an additional computed context key.
func WithComputed(name string, fn values.ComputedFunc) Option {
	return func(g *Generator) {
		g.computed = append(g.computed, values.WithComputed(name, fn))
	}
}

// Generator owns the generation pipeline. Missing dependencies are
// initialised with the built-in implementations so callers can start with a
// single constructor call.
type Generator struct {
	engine   engine.Renderer
	hooks    *hooks.Registry
	driver   prompt.Driver
	clock    func() time.Time
	computed []values.Option
	log      zerolog.Logger

	initErr         error
	defaultsApplied bool
}

// New constructs a Generator applying any provided options.
func New(options ...Option) *Generator {
	g := &Generator{
		clock: time.Now,
		log:   logging.GetLogger("generator"),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	g.applyDefaults()
	return g
}

// Request describes one generation run.
type Request struct {
	// TemplateDir is the template tree root holding scaffold.yaml.
	TemplateDir string

	// OutputDir is where the rendered project tree is written.
	OutputDir string

	// Values are direct context values, highest precedence.
	Values map[string]any

	// AnswersFile optionally seeds values recorded by a previous run; -Values
	// entries win over it.
	AnswersFile string

	// NoInput skips interactive prompting; declared defaults fill the gaps.
	NoInput bool

	// Overwrite permits writing into an existing destination.
	Overwrite bool
}

// Result describes a completed run.
type Result struct {
	// OutputRoot is the generated project root (OutputDir joined with the
	// rendered top-level directory when the template declares one).
	OutputRoot string

	// Files holds the rendered relative file paths written, sorted.
	Files []string

	// HookErrors collects per-hook failures. The materialized tree is valid
	// even when this is non-empty.
	HookErrors []*hooks.HookError
}

// Generate runs manifest load → answer collection → context build →
// materialize → hooks. Context and rendering errors abort with a fully rolled
// back output tree; hook failures are collected in the result and returned as
// a summary error without undoing the materialization.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("generator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := g.initErr; err != nil {
		return nil, err
	}
	if req.TemplateDir == "" {
		return nil, errors.New("generator: template directory is required")
	}
	if req.OutputDir == "" {
		return nil, errors.New("generator: output directory is required")
	}

	fsys := os.DirFS(req.TemplateDir)
	manifest, err := scaffold.LoadManifest(fsys)
	if err != nil {
		return nil, err
	}
	tree, err := scaffold.LoadTree(fsys, manifest.Skip)
	if err != nil {
		return nil, err
	}
	g.log.Debug().Int("entries", len(tree)).Str("template", req.TemplateDir).Msg("template tree loaded")

	direct, err := g.collectValues(ctx, manifest.Schema(), req)
	if err != nil {
		return nil, err
	}

	buildOpts := append([]values.Option{values.WithClock(g.clock)}, g.computed...)
	vctx, err := values.Build(manifest.Schema(), direct, buildOpts...)
	if err != nil {
		return nil, err
	}
	data, err := vctx.Map()
	if err != nil {
		return nil, err
	}

	rules, err := include.Compile(includeRules(manifest))
	if err != nil {
		return nil, err
	}

	mat := materialize.New(
		render.NewPathRenderer(g.engine),
		render.NewContentRenderer(g.engine, manifest.Verbatim),
		rules,
	)
	matResult, err := mat.Materialize(tree, data, req.OutputDir, materialize.Options{Overwrite: req.Overwrite})
	if err != nil {
		return nil, err
	}

	result := &Result{
		OutputRoot: projectRoot(req.OutputDir, matResult),
		Files:      matResult.Files,
	}

	hookList, err := g.hooks.Select(manifest.Hooks)
	if err != nil {
		return nil, err
	}
	result.HookErrors = hooks.Run(ctx, hooks.Env{Root: result.OutputRoot, Context: vctx}, hookList)
	if len(result.HookErrors) > 0 {
		return result, fmt.Errorf("generator: %d of %d hooks failed", len(result.HookErrors), len(hookList))
	}

	g.log.Info().Str("output", result.OutputRoot).Int("files", len(result.Files)).Msg("project generated")
	return result, nil
}

// collectValues layers request values over recorded answers, then prompts for
// whatever is still missing unless the request disabled input.
func (g *Generator) collectValues(ctx context.Context, schema values.Schema, req Request) (map[string]any, error) {
	merged := make(map[string]any)

	if req.AnswersFile != "" {
		recorded, err := answers.Load(req.AnswersFile)
		if err != nil {
			return nil, err
		}
		for key, value := range recorded.Answers {
			merged[key] = value
		}
	}
	for key, value := range req.Values {
		merged[key] = value
	}

	if req.NoInput || g.driver == nil {
		return merged, nil
	}
	return prompt.Ask(ctx, schema, merged, g.driver)
}

func (g *Generator) applyDefaults() {
	if g.defaultsApplied {
		return
	}

	if g.engine == nil {
		eng, err := pongo.New()
		if err != nil {
			g.initErr = fmt.Errorf("generator: default engine: %w", err)
		} else {
			g.engine = eng
		}
	}
	if g.hooks == nil {
		g.hooks = hooks.Defaults()
	}

	g.defaultsApplied = true
}

func includeRules(manifest *scaffold.Manifest) []include.Rule {
	rules := make([]include.Rule, 0, len(manifest.Include))
	for _, decl := range manifest.Include {
		rules = append(rules, include.Rule{Pattern: decl.Path, When: decl.When})
	}
	return rules
}

// projectRoot resolves the generated project root: the single top-level
// directory the run produced, or the output dir itself when the template
// writes several top-level entries.
func projectRoot(outputDir string, matResult *materialize.Result) string {
	tops := make(map[string]struct{})
	for _, rel := range append(append([]string{}, matResult.Dirs...), matResult.Files...) {
		top, _, _ := strings.Cut(rel, "/")
		tops[top] = struct{}{}
	}
	if len(tops) == 1 {
		for top := range tops {
			info, err := os.Stat(filepath.Join(outputDir, top))
			if err == nil && info.IsDir() {
				return filepath.Join(outputDir, top)
			}
		}
	}
	return outputDir
}
