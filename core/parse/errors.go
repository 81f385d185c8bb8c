package parse

import (
	"fmt"
	"strings"

	"github.com/leofalp/capitalagent/internal/utils"
)

// SchemaValidationError reports a reply that does not match the expected
// output shape. It is never partial: when it is returned, no value is.
type SchemaValidationError struct {
	// Field is the JSON path of the offending property ("population",
	// "location.lat", "items[2]"); empty when the reply as a whole is unusable.
	Field string
	// Reason is a short human readable description of the mismatch.
	Reason string
	// Content is the raw reply, truncated for logging.
	Content string
	// Err is the underlying decode or validation error, if any.
	Err error
}

func newSchemaValidationError(field, reason, content string, err error) *SchemaValidationError {
	return &SchemaValidationError{
		Field:   field,
		Reason:  reason,
		Content: utils.TruncateString(content, utils.DefaultMaxStringLength),
		Err:     err,
	}
}

func (e *SchemaValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed")
	if e.Field != "" {
		fmt.Fprintf(&sb, " at %q", e.Field)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}
