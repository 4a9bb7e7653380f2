package render

import (
	"fmt"
)

// TemplateError reports a token that could not be resolved or malformed
// template syntax, carrying the template-relative path it occurred in and,
// when the engine reports one, the offending token and line.
type TemplateError struct {
	Path  string
	Token string
	Line  int
	Err   error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("render: template error in %s", e.Path)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s:%d", msg, e.Line)
	}
	if e.Token != "" {
		msg = fmt.Sprintf("%s: unresolved token %q", msg, e.Token)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
