package values

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ComputedFunc derives a value from the rest of the context. Implementations
// must be pure: they may read other keys through the context but never mutate
// it.
type ComputedFunc func(c *Context) (any, error)

// Option customises context construction.
type Option func(*builder)

type builder struct {
	computed map[string]ComputedFunc
	order    []string
	clock    func() time.Time
}

// WithComputed registers a computed key. Registering a name twice keeps the
// last registration.
func WithComputed(name string, fn ComputedFunc) Option {
	return func(b *builder) {
		if name == "" || fn == nil {
			return
		}
		if _, exists := b.computed[name]; !exists {
			b.order = append(b.order, name)
		}
		b.computed[name] = fn
	}
}

// WithClock overrides the wall clock used by time-derived computed keys.
func WithClock(clock func() time.Time) Option {
	return func(b *builder) {
		if clock != nil {
			b.clock = clock
		}
	}
}

// Context is the resolved set of answers driving rendering and inclusion
// decisions. Direct keys hold caller-supplied or defaulted values; computed
// keys resolve lazily through registered functions and are memoized after the
// first read.
type Context struct {
	schema   Schema
	direct   map[string]any
	computed map[string]ComputedFunc
	order    []string
	memo     map[string]any
	solving  map[string]bool
}

// Build merges caller-supplied direct values with the schema's defaults and
// validates the result. The wall clock is read here, not at render time, so a
// single render pass is deterministic.
func Build(schema Schema, direct map[string]any, options ...Option) (*Context, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		computed: make(map[string]ComputedFunc),
		clock:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	now := b.clock()
	registerStandardComputed(b, now, schema)

	resolved := make(map[string]any, len(schema.Keys))
	for _, key := range schema.Keys {
		supplied, ok := direct[key.Name]
		if !ok {
			if key.Required() {
				return nil, &MissingKeyError{Key: key.Name}
			}
			resolved[key.Name] = key.Default
			continue
		}
		value, err := coerce(key, supplied)
		if err != nil {
			return nil, err
		}
		resolved[key.Name] = value
	}

	for name := range direct {
		if _, declared := schema.Key(name); !declared {
			return nil, &UnknownKeyError{Key: name}
		}
	}

	for name := range b.computed {
		if _, declared := schema.Key(name); declared {
			return nil, &KeyCollisionError{Key: name}
		}
	}

	return &Context{
		schema:   schema,
		direct:   resolved,
		computed: b.computed,
		order:    b.order,
		memo:     make(map[string]any),
		solving:  make(map[string]bool),
	}, nil
}

// Value looks up a declared or computed key. Lookup is total over the declared
// key set; undeclared keys fail with *UnknownKeyError.
func (c *Context) Value(name string) (any, error) {
	if v, ok := c.direct[name]; ok {
		return v, nil
	}
	if v, ok := c.memo[name]; ok {
		return v, nil
	}
	fn, ok := c.computed[name]
	if !ok {
		return nil, &UnknownKeyError{Key: name}
	}
	if c.solving[name] {
		return nil, fmt.Errorf("values: computed key %q depends on itself", name)
	}
	c.solving[name] = true
	v, err := fn(c)
	delete(c.solving, name)
	if err != nil {
		return nil, fmt.Errorf("values: compute key %q: %w", name, err)
	}
	c.memo[name] = v
	return v, nil
}

// String looks up name and formats it as a string.
func (c *Context) String(name string) (string, error) {
	v, err := c.Value(name)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return fmt.Sprintf("%v", t), nil
	}
}

// Map resolves every declared and computed key into a plain map suitable for
// the templating engine.
func (c *Context) Map() (map[string]any, error) {
	out := make(map[string]any, len(c.direct)+len(c.computed))
	for name, v := range c.direct {
		out[name] = v
	}
	for _, name := range c.order {
		v, err := c.Value(name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// Direct returns a copy of the direct (supplied or defaulted) key values, in
// schema declaration order when iterated through Schema().Keys.
func (c *Context) Direct() map[string]any {
	out := make(map[string]any, len(c.direct))
	for name, v := range c.direct {
		out[name] = v
	}
	return out
}

// Schema returns the declaration this context was built against.
func (c *Context) Schema() Schema {
	return c.schema
}

func coerce(key KeySpec, supplied any) (any, error) {
	switch key.Kind {
	case KindBool:
		switch v := supplied.(type) {
		case bool:
			return v, nil
		case string:
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return nil, &InvalidValueError{Key: key.Name, Value: supplied, Reason: "expected true or false"}
			}
			return parsed, nil
		default:
			return nil, &InvalidValueError{Key: key.Name, Value: supplied, Reason: "expected true or false"}
		}
	case KindChoice:
		v, ok := supplied.(string)
		if !ok {
			return nil, &InvalidValueError{Key: key.Name, Value: supplied, Reason: "expected a string choice"}
		}
		if !contains(key.Choices, v) {
			return nil, &InvalidChoiceError{Key: key.Name, Value: v, Choices: key.Choices}
		}
		return v, nil
	default:
		v, ok := supplied.(string)
		if !ok {
			return nil, &InvalidValueError{Key: key.Name, Value: supplied, Reason: "expected a string"}
		}
		if key.Pattern != "" {
			re := regexp.MustCompile(key.Pattern)
			if !re.MatchString(v) {
				return nil, &InvalidValueError{Key: key.Name, Value: v, Reason: fmt.Sprintf("does not match %s", key.Pattern)}
			}
		}
		return v, nil
	}
}
