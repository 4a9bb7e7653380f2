// Package materialize walks a template tree snapshot and writes the rendered,
// selectively pruned output project. Materialization is all or nothing: any
// rendering or write failure removes everything this run created before the
// error reaches the caller.
package materialize

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-scaffold/pkg/include"
	"github.com/goliatone/go-scaffold/pkg/logging"
	"github.com/goliatone/go-scaffold/pkg/render"
	"github.com/goliatone/go-scaffold/pkg/scaffold"
)

// Options control a single materialization run.
type Options struct {
	// Overwrite permits writing into existing output paths. When false, a
	// conflicting top-level entry aborts the run before any write.
	Overwrite bool
}

// Result describes a completed materialization.
type Result struct {
	// Root is the output root the tree was written under.
	Root string
	// Dirs and Files hold the rendered relative paths written this run, sorted.
	Dirs  []string
	Files []string
}

// Materializer applies path rendering, inclusion decisions, and content
// rendering over a tree snapshot, in that order, top down.
type Materializer struct {
	paths   *render.PathRenderer
	content *render.ContentRenderer
	rules   *include.RuleSet
	log     zerolog.Logger
}

// New assembles a materializer from its three collaborators.
func New(paths *render.PathRenderer, content *render.ContentRenderer, rules *include.RuleSet) *Materializer {
	return &Materializer{
		paths:   paths,
		content: content,
		rules:   rules,
		log:     logging.GetLogger("materialize"),
	}
}

// Materialize writes the rendered tree under outputRoot. Entries must arrive
// parents before children (scaffold.LoadTree order). Inclusion is evaluated
// against the original template path and short-circuits whole subtrees:
// children of an excluded directory are never rendered at all.
//
// Running twice with identical inputs and Overwrite enabled produces
// byte-identical output trees.
func (m *Materializer) Materialize(entries []scaffold.Entry, data map[string]any, outputRoot string, opts Options) (result *Result, err error) {
	outputRoot = filepath.Clean(outputRoot)
	if !opts.Overwrite {
		if err := m.checkConflicts(entries, data, outputRoot); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("materialize: create output root: %w", err)
	}

	run := &runState{root: outputRoot}
	defer func() {
		if err != nil {
			run.rollback(m.log)
		}
	}()

	var excluded []string
	for _, entry := range entries {
		if underAny(entry.Path, excluded) {
			continue
		}

		ok, inclErr := m.rules.Include(entry.Path, data)
		if inclErr != nil {
			return nil, inclErr
		}
		if !ok {
			m.log.Debug().Str("path", entry.Path).Msg("excluded by rule")
			if entry.Dir {
				excluded = append(excluded, entry.Path+"/")
			}
			continue
		}

		rendered, keep, renderErr := m.paths.Path(entry.Path, data)
		if renderErr != nil {
			return nil, renderErr
		}
		if !keep {
			// The whole path collapsed; descendants re-parent upward on
			// their own rendered paths.
			continue
		}

		target := filepath.Join(outputRoot, filepath.FromSlash(rendered))
		if err := m.writeEntry(entry, rendered, target, data, run); err != nil {
			return nil, err
		}
	}

	sort.Strings(run.dirs)
	sort.Strings(run.files)
	return &Result{Root: outputRoot, Dirs: run.dirs, Files: run.files}, nil
}

// checkConflicts renders every surviving entry path ahead of the write pass
// so a conflicting destination surfaces before any output I/O happens. A
// collapsed parent segment re-parents children to a shallower rendered path,
// so a top-level-only check would miss them.
func (m *Materializer) checkConflicts(entries []scaffold.Entry, data map[string]any, outputRoot string) error {
	var excluded []string
	for _, entry := range entries {
		if underAny(entry.Path, excluded) {
			continue
		}
		ok, err := m.rules.Include(entry.Path, data)
		if err != nil {
			return err
		}
		if !ok {
			if entry.Dir {
				excluded = append(excluded, entry.Path+"/")
			}
			continue
		}
		rendered, keep, err := m.paths.Path(entry.Path, data)
		if err != nil || !keep {
			// Path errors are reported by the write pass with full context.
			continue
		}
		target := filepath.Join(outputRoot, filepath.FromSlash(rendered))
		if _, statErr := os.Lstat(target); statErr == nil {
			return &DestinationExistsError{Path: target}
		}
	}
	return nil
}

func (m *Materializer) writeEntry(entry scaffold.Entry, rendered, target string, data map[string]any, run *runState) error {
	info, statErr := os.Lstat(target)
	exists := statErr == nil

	if entry.Dir {
		if exists {
			if !info.IsDir() {
				return fmt.Errorf("materialize: %s exists and is not a directory", target)
			}
			return nil
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("materialize: create directory %s: %w", target, err)
		}
		run.created(target, true, rendered)
		m.log.Debug().Str("dir", rendered).Msg("created")
		return nil
	}

	content, err := m.content.Content(entry.Path, entry.Content, data)
	if err != nil {
		return err
	}

	// Collapsed directory segments may leave the parent uncreated.
	parent := filepath.Dir(target)
	if _, err := os.Stat(parent); os.IsNotExist(err) {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return fmt.Errorf("materialize: create directory %s: %w", parent, err)
		}
		run.created(parent, true, filepath.ToSlash(filepath.Dir(rendered)))
	}

	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("materialize: write %s: %w", target, err)
	}
	if !exists {
		run.created(target, false, rendered)
	} else {
		run.files = append(run.files, rendered)
	}
	m.log.Debug().Str("file", rendered).Int("bytes", len(content)).Msg("written")
	return nil
}

type createdPath struct {
	abs string
	dir bool
}

type runState struct {
	root    string
	paths   []createdPath
	dirs    []string
	files   []string
	tracked map[string]bool
}

func (r *runState) created(abs string, dir bool, rel string) {
	if r.tracked == nil {
		r.tracked = make(map[string]bool)
	}
	if r.tracked[abs] {
		return
	}
	r.tracked[abs] = true
	r.paths = append(r.paths, createdPath{abs: abs, dir: dir})
	if dir {
		r.dirs = append(r.dirs, rel)
	} else {
		r.files = append(r.files, rel)
	}
}

// rollback removes everything this run created, children before parents.
// Pre-existing content is left alone.
func (r *runState) rollback(log zerolog.Logger) {
	for i := len(r.paths) - 1; i >= 0; i-- {
		p := r.paths[i]
		var err error
		if p.dir {
			err = os.RemoveAll(p.abs)
		} else {
			err = os.Remove(p.abs)
		}
		if err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", p.abs).Msg("rollback failed to remove path")
		}
	}
	log.Debug().Int("removed", len(r.paths)).Msg("rolled back partial output")
}

func underAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
