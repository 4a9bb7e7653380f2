package scaffold

import (
	"fmt"
	"io/fs"

	"github.com/goliatone/go-scaffold/internal/pathmatch"
)

// Entry is one file or directory from the template tree, read once at load
// time and immutable thereafter. Path is slash-separated and relative to the
// template root; it may still contain unrendered tokens.
type Entry struct {
	Path    string
	Dir     bool
	Content []byte
}

// LoadTree snapshots the template tree under fsys. Entries arrive in lexical
// walk order, so a directory always precedes its descendants. The manifest
// itself and any path matching a skip pattern never enter the snapshot.
func LoadTree(fsys fs.FS, skip []string) ([]Entry, error) {
	var entries []Entry

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == "." {
			return nil
		}
		if path == ManifestName {
			return nil
		}
		for _, pattern := range skip {
			if pathmatch.Match(pattern, path) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
		}

		entry := Entry{Path: path, Dir: d.IsDir()}
		if !entry.Dir {
			content, err := fs.ReadFile(fsys, path)
			if err != nil {
				return fmt.Errorf("scaffold: read %s: %w", path, err)
			}
			entry.Content = content
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scaffold: walk template tree: %w", err)
	}
	return entries, nil
}
