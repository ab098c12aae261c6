// errors.go - Pipeline error types

package extractor

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the LLM produced no content at all.
// It is the only way response recovery can fail.
var ErrEmptyResponse = errors.New("empty response from LLM")

// StructuringError indicates the recovered payload had a top-level section
// of the wrong shape and could not be mapped to the typed model
type StructuringError struct {
	Section string
	Cause   string
}

func (e *StructuringError) Error() string {
	return fmt.Sprintf("failed to structure extracted data: section %q %s", e.Section, e.Cause)
}
