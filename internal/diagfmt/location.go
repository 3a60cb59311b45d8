package diagfmt

import (
	"squiggle/internal/diag"
	"squiggle/internal/source"
)

// note is a secondary location attached to an error.
type note struct {
	sourceID string
	span     source.Span
	hasSpan  bool
	msg      string
}

// notesOf lists lambda frames innermost first, then import sites from the
// failing source outwards.
func notesOf(e *diag.Error) []note {
	out := make([]note, 0, len(e.Frames)+len(e.Chain))
	for _, f := range e.Frames {
		out = append(out, note{sourceID: f.SourceID, span: f.Span, hasSpan: true, msg: "in " + f.Name})
	}
	for _, link := range e.Chain {
		out = append(out, note{
			sourceID: link.SourceID,
			span:     link.Span,
			hasSpan:  !link.Span.Empty(),
			msg:      "while importing " + quote(link.Target),
		})
	}
	return out
}

func quote(s string) string { return "\"" + s + "\"" }

// position resolves span in sourceID; ok is false when the text is unknown.
func position(fs *source.FileSet, sourceID string, span source.Span) (start, end source.LineCol, f *source.File, ok bool) {
	if fs == nil || sourceID == "" {
		return start, end, nil, false
	}
	f, ok = fs.Get(sourceID)
	if !ok {
		return start, end, nil, false
	}
	start, end = f.Resolve(span)
	return start, end, f, true
}
