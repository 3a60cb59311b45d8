package diagfmt

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"squiggle/internal/diag"
	"squiggle/internal/source"
)

// LocationJSON is a span in a source.
type LocationJSON struct {
	Source    string `json:"source" yaml:"source"`
	StartByte uint32 `json:"start_byte" yaml:"start_byte"`
	EndByte   uint32 `json:"end_byte" yaml:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty" yaml:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty" yaml:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty" yaml:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty" yaml:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string        `json:"message" yaml:"message"`
	Location *LocationJSON `json:"location,omitempty" yaml:"location,omitempty"`
	Source   string        `json:"source,omitempty" yaml:"source,omitempty"`
}

type DiagnosticJSON struct {
	Severity string        `json:"severity" yaml:"severity"`
	Code     string        `json:"code" yaml:"code"`
	Kind     string        `json:"kind" yaml:"kind"`
	Message  string        `json:"message" yaml:"message"`
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	Source   string        `json:"source,omitempty" yaml:"source,omitempty"`
	Location *LocationJSON `json:"location,omitempty" yaml:"location,omitempty"`
	Cause    string        `json:"cause,omitempty" yaml:"cause,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" yaml:"diagnostics"`
	Count       int              `json:"count" yaml:"count"`
}

func makeLocation(fs *source.FileSet, sourceID string, span source.Span, includePositions bool) *LocationJSON {
	loc := &LocationJSON{Source: sourceID, StartByte: span.Start, EndByte: span.End}
	if includePositions {
		if start, end, _, ok := position(fs, sourceID, span); ok {
			loc.StartLine, loc.StartCol = start.Line, start.Col
			loc.EndLine, loc.EndCol = end.Line, end.Col
		}
	}
	return loc
}

// BuildDiagnosticsOutput converts errs without serialising them.
func BuildDiagnosticsOutput(errs []*diag.Error, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	n := len(errs)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, n)}
	for _, e := range errs[:n] {
		d := DiagnosticJSON{
			Severity: diag.SevError.String(),
			Code:     e.Code.ID(),
			Kind:     e.Kind().String(),
			Message:  e.Message,
			Name:     e.Name,
			Source:   e.SourceID,
		}
		if d.Message == "" {
			d.Message = e.Code.Title()
		}
		if e.HasSpan {
			d.Location = makeLocation(fs, e.SourceID, e.Span, opts.IncludePositions)
		}
		if e.Cause != nil {
			d.Cause = e.Cause.Error()
		}
		if opts.IncludeNotes {
			for _, nt := range notesOf(e) {
				nj := NoteJSON{Message: nt.msg, Source: nt.sourceID}
				if nt.hasSpan {
					nj.Location = makeLocation(fs, nt.sourceID, nt.span, opts.IncludePositions)
					nj.Source = ""
				}
				d.Notes = append(d.Notes, nj)
			}
		}
		out.Diagnostics = append(out.Diagnostics, d)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes errs as an indented JSON document.
func JSON(w io.Writer, errs []*diag.Error, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(errs, fs, opts))
}

// YAML writes errs as a YAML document.
func YAML(w io.Writer, errs []*diag.Error, fs *source.FileSet, opts JSONOpts) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BuildDiagnosticsOutput(errs, fs, opts)); err != nil {
		return err
	}
	return enc.Close()
}
