package letter

import (
	"errors"
	"fmt"
)

// Pipeline errors
var (
	ErrTemplateNotFound        = errors.New("letter template not found")
	ErrRenderTimeout           = errors.New("render timed out")
	ErrRenderEngineUnavailable = errors.New("render engine unavailable")
	ErrRenderContentInvalid    = errors.New("render content invalid")
	ErrArtifactNotFound        = errors.New("artifact not found")
	ErrTransportUnavailable    = errors.New("email transport unavailable")
	ErrRecipientRejected       = errors.New("recipient address rejected")
)

// ValidationError reports a bad or missing pipeline input. It is returned
// before any rendering resource is acquired and maps to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
