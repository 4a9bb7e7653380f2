package engine

import (
	"io"
)

// Renderer mirrors the github.com/goliatone/go-template engine contract,
// providing the seam the rendering pipeline relies on. Implementations must be
// pure with respect to the data they receive: the same content and data always
// produce the same output.
type Renderer interface {
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
