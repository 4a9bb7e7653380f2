// Package pathmatch matches slash-separated relative paths against the glob
// patterns used by manifest rules. The pattern grammar is deliberately small:
// `*` and `?` match within a segment (path.Match semantics), a pattern with no
// separator matches the base name at any depth, and a `**/` prefix matches the
// remainder at any depth.
package pathmatch

import (
	"path"
	"strings"
)

// Match reports whether rel matches pattern. Malformed patterns never match.
func Match(pattern, rel string) bool {
	pattern = strings.TrimPrefix(pattern, "./")
	rel = strings.TrimPrefix(rel, "./")

	if !strings.Contains(pattern, "/") {
		ok, err := path.Match(pattern, path.Base(rel))
		return err == nil && ok
	}

	if rest, anchored := strings.CutPrefix(pattern, "**/"); anchored {
		segments := strings.Split(rel, "/")
		for i := range segments {
			ok, err := path.Match(rest, strings.Join(segments[i:], "/"))
			if err != nil {
				return false
			}
			if ok {
				return true
			}
		}
		return false
	}

	ok, err := path.Match(pattern, rel)
	return err == nil && ok
}
