package diag

import (
	"errors"
	"fmt"
	"strings"

	"squiggle/internal/source"
)

// ChainLink is one hop of an import chain: the import of Target written in
// SourceID at Span.
type ChainLink struct {
	SourceID string
	Target   string
	Span     source.Span
}

// Frame is one activation of a user lambda, used for runtime backtraces.
type Frame struct {
	Name     string
	SourceID string
	Span     source.Span
}

// Error is the tagged error returned by the project, compiler and
// interpreter.
type Error struct {
	Code     Code
	SourceID string      // source in which the failure happened, "" if none
	Span     source.Span // valid when HasSpan
	HasSpan  bool
	Name     string // offending identifier or source id
	Message  string
	Chain    []ChainLink // import sites, innermost first
	Frames   []Frame     // lambda calls active at a runtime failure, innermost first
	Cause    error
}

// Errorf builds an Error without span information.
func Errorf(code Code, sourceID, format string, args ...any) *Error {
	return &Error{Code: code, SourceID: sourceID, Message: fmt.Sprintf(format, args...)}
}

// ErrorAt builds an Error located at span.
func ErrorAt(code Code, sourceID string, span source.Span, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		SourceID: sourceID,
		Span:     span,
		HasSpan:  true,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code.ID())
	sb.WriteString(": ")
	if e.Message != "" {
		sb.WriteString(e.Message)
	} else {
		sb.WriteString(e.Code.Title())
	}
	if e.SourceID != "" {
		sb.WriteString(" (in ")
		sb.WriteString(e.SourceID)
		if e.HasSpan {
			sb.WriteString(" at ")
			sb.WriteString(e.Span.String())
		}
		sb.WriteString(")")
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Kind reports the error category.
func (e *Error) Kind() Kind {
	if e == nil {
		return KindUnknown
	}
	return e.Code.Kind()
}

// WithName returns e with Name set.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}

// WithCause returns e wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Through returns a copy of e with one more import site appended to its
// chain. The receiver is left untouched so cached errors stay stable.
func (e *Error) Through(link ChainLink) *Error {
	cp := *e
	cp.Chain = make([]ChainLink, 0, len(e.Chain)+1)
	cp.Chain = append(cp.Chain, e.Chain...)
	cp.Chain = append(cp.Chain, link)
	return &cp
}

// Diagnostic converts e into a Diagnostic record, with import sites as notes.
func (e *Error) Diagnostic() Diagnostic {
	d := Diagnostic{
		Severity: SevError,
		Code:     e.Code,
		Message:  e.Message,
		Primary:  e.Span,
	}
	for _, f := range e.Frames {
		d.Notes = append(d.Notes, Note{
			Span: f.Span,
			Msg:  fmt.Sprintf("in %s (%s)", f.Name, f.SourceID),
		})
	}
	for _, link := range e.Chain {
		d.Notes = append(d.Notes, Note{
			Span: link.Span,
			Msg:  fmt.Sprintf("imported as %q from %s", link.Target, link.SourceID),
		})
	}
	return d
}

// As extracts the *Error from err, if any.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err carries a diag Error of kind k.
func IsKind(err error, k Kind) bool {
	de, ok := As(err)
	return ok && de.Kind() == k
}

// IsCode reports whether err carries a diag Error with code c.
func IsCode(err error, c Code) bool {
	de, ok := As(err)
	return ok && de.Code == c
}
