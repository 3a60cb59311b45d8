package diag

import (
	"squiggle/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// AsError converts the diagnostic into a tagged error for sourceID.
func (d Diagnostic) AsError(sourceID string) *Error {
	return &Error{
		Code:     d.Code,
		SourceID: sourceID,
		Span:     d.Primary,
		HasSpan:  true,
		Message:  d.Message,
	}
}
