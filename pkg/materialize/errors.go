package materialize

import (
	"fmt"
)

// DestinationExistsError reports output that already exists when overwriting
// was not permitted. It is raised before anything is written.
type DestinationExistsError struct {
	Path string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("materialize: destination %s already exists (enable overwrite to replace it)", e.Path)
}
