package include

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Condition is a parsed predicate over context values. The grammar is small
// on purpose: identifiers, string/number/bool literals, `==`, `!=`, `&&`,
// `||`, `!`, and parentheses. A bare identifier tests truthiness.
//
// Unlike lenient expression evaluators, referencing a key absent from the
// context is an evaluation error: a typo in a manifest rule must surface, not
// silently exclude half a template.
type Condition struct {
	source string
	root   node
}

// ParseCondition compiles source into a Condition.
func ParseCondition(source string) (*Condition, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, errors.New("include: empty condition")
	}
	tokens, err := scan(trimmed)
	if err != nil {
		return nil, err
	}
	stream := &tokenStream{tokens: tokens}
	root, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("include: unexpected token %q in condition %q", stream.tokens[stream.pos].raw, trimmed)
	}
	return &Condition{source: trimmed, root: root}, nil
}

// Eval evaluates the condition against the given context values.
func (c *Condition) Eval(data map[string]any) (bool, error) {
	ok, err := c.root.eval(data)
	if err != nil {
		return false, fmt.Errorf("include: condition %q: %w", c.source, err)
	}
	return ok, nil
}

// String returns the original condition source.
func (c *Condition) String() string {
	return c.source
}

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenBool
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func scan(input string) ([]token, error) {
	var tokens []token
	i := 0

	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case ch == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokenNot, raw: "!"})
				i++
			}
		case ch == '=':
			if i+1 >= len(input) || input[i+1] != '=' {
				return nil, errors.New("include: unexpected '='; use '=='")
			}
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			i += 2
		case ch == '&':
			if i+1 >= len(input) || input[i+1] != '&' {
				return nil, errors.New("include: unexpected '&'; use '&&'")
			}
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			i += 2
		case ch == '|':
			if i+1 >= len(input) || input[i+1] != '|' {
				return nil, errors.New("include: unexpected '|'; use '||'")
			}
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			i += 2
		case ch == '"' || ch == '\'':
			value, next, err := scanString(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = next
		default:
			start := i
			for i < len(input) && !strings.ContainsRune(" \t\n\r()!=&|'\"", rune(input[i])) {
				i++
			}
			raw := input[start:i]
			switch {
			case raw == "true" || raw == "false":
				tokens = append(tokens, token{kind: tokenBool, raw: raw})
			case looksLikeNumber(raw):
				tokens = append(tokens, token{kind: tokenNumber, raw: raw})
			default:
				tokens = append(tokens, token{kind: tokenIdent, raw: raw})
			}
		}
	}
	return tokens, nil
}

func scanString(input string, start int) (string, int, error) {
	quote := input[start]
	i := start + 1
	var b strings.Builder
	for i < len(input) {
		ch := input[i]
		if ch == '\\' && i+1 < len(input) {
			b.WriteByte(input[i+1])
			i += 2
			continue
		}
		if ch == quote {
			return b.String(), i + 1, nil
		}
		b.WriteByte(ch)
		i++
	}
	return "", 0, errors.New("include: unterminated string literal")
}

func looksLikeNumber(raw string) bool {
	if raw == "" {
		return false
	}
	_, err := strconv.ParseFloat(raw, 64)
	return err == nil
}

type node interface {
	eval(data map[string]any) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(data map[string]any) (bool, error) {
	ok, err := n.left.eval(data)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return n.right.eval(data)
}

type andNode struct{ left, right node }

func (n andNode) eval(data map[string]any) (bool, error) {
	ok, err := n.left.eval(data)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return n.right.eval(data)
}

type notNode struct{ inner node }

func (n notNode) eval(data map[string]any) (bool, error) {
	ok, err := n.inner.eval(data)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type compareNode struct {
	key     string
	negated bool
	want    token
}

func (n compareNode) eval(data map[string]any) (bool, error) {
	value, ok := data[n.key]
	if !ok {
		return false, fmt.Errorf("key %q is not in the context", n.key)
	}

	var equal bool
	switch n.want.kind {
	case tokenBool:
		got, err := asBool(n.key, value)
		if err != nil {
			return false, err
		}
		equal = got == (n.want.raw == "true")
	case tokenNumber:
		want, _ := strconv.ParseFloat(n.want.raw, 64)
		got, err := asNumber(n.key, value)
		if err != nil {
			return false, err
		}
		equal = got == want
	default:
		equal = asString(value) == n.want.raw
	}

	if n.negated {
		return !equal, nil
	}
	return equal, nil
}

type truthyNode struct{ key string }

func (n truthyNode) eval(data map[string]any) (bool, error) {
	value, ok := data[n.key]
	if !ok {
		return false, fmt.Errorf("key %q is not in the context", n.key)
	}
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strings.TrimSpace(v) != "", nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case nil:
		return false, nil
	default:
		return true, nil
	}
}

type tokenStream struct {
	tokens []token
	pos    int
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos < len(s.tokens) && s.tokens[s.pos].kind == kind {
		s.pos++
		return true
	}
	return false
}

func parseOr(s *tokenStream) (node, error) {
	left, err := parseAnd(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenOr) {
		right, err := parseAnd(s)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(s *tokenStream) (node, error) {
	left, err := parseUnary(s)
	if err != nil {
		return nil, err
	}
	for s.match(tokenAnd) {
		right, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseUnary(s *tokenStream) (node, error) {
	if s.match(tokenNot) {
		inner, err := parseUnary(s)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parsePrimary(s)
}

func parsePrimary(s *tokenStream) (node, error) {
	if s.match(tokenLParen) {
		inner, err := parseOr(s)
		if err != nil {
			return nil, err
		}
		if !s.match(tokenRParen) {
			return nil, errors.New("include: missing closing ')'")
		}
		return inner, nil
	}

	if s.pos >= len(s.tokens) {
		return nil, errors.New("include: incomplete condition")
	}
	ident := s.tokens[s.pos]
	if ident.kind != tokenIdent {
		return nil, fmt.Errorf("include: expected identifier, got %q", ident.raw)
	}
	s.pos++

	for _, op := range []tokenKind{tokenEq, tokenNeq} {
		if !s.match(op) {
			continue
		}
		if s.pos >= len(s.tokens) {
			return nil, errors.New("include: missing literal after comparison")
		}
		want := s.tokens[s.pos]
		switch want.kind {
		case tokenString, tokenNumber, tokenBool, tokenIdent:
			s.pos++
			return compareNode{key: ident.raw, negated: op == tokenNeq, want: want}, nil
		default:
			return nil, fmt.Errorf("include: expected literal, got %q", want.raw)
		}
	}

	return truthyNode{key: ident.raw}, nil
}

func asBool(key string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("key %q: %q is not a bool", key, v)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("key %q: %T is not a bool", key, value)
	}
}

func asNumber(key string, value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("key %q: %q is not a number", key, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("key %q: %T is not a number", key, value)
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(value)
	}
}
