package values

import (
	"errors"
	"time"

	"github.com/goliatone/go-scaffold/pkg/engine/pongo"
)

// DefaultAnswersFile is the relative path hooks use to record the final
// context inside a generated project.
const DefaultAnswersFile = ".scaffold-answers.yml"

// Standard computed keys every context carries unless the caller overrides
// them:
//
//   - project_slug: identifier-safe form of project_name
//   - year: calendar year at context construction
//   - answers_file: where the recorded answers land inside the output tree
//
// A standard key yields to a schema declaration of the same name; only
// caller-registered computed keys collide with declared keys.
func registerStandardComputed(b *builder, now time.Time, schema Schema) {
	register := func(name string, fn ComputedFunc) {
		if _, declared := schema.Key(name); declared {
			return
		}
		if _, exists := b.computed[name]; exists {
			return
		}
		b.order = append(b.order, name)
		b.computed[name] = fn
	}

	register("project_slug", func(c *Context) (any, error) {
		name, err := c.String("project_name")
		if err != nil {
			var unknown *UnknownKeyError
			if errors.As(err, &unknown) {
				// Templates without a project_name key get an empty slug.
				return "", nil
			}
			return nil, err
		}
		return pongo.Slugify(name), nil
	})

	year := now.Year()
	register("year", func(*Context) (any, error) {
		return year, nil
	})

	register("answers_file", func(*Context) (any, error) {
		return DefaultAnswersFile, nil
	})
}
