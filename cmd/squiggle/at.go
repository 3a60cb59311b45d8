package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"squiggle/internal/project"
	"squiggle/internal/source"
	"squiggle/internal/value"
	"squiggle/internal/valuepath"
)

// locate walks spec, "result" or "bindings" followed by slash-separated
// keys and indices, through the output of id. Segments index lists when
// the value reached so far is a list.
func locate(p *project.Project, id, spec string) (project.Located, error) {
	parts := strings.Split(strings.Trim(spec, "/"), "/")
	var (
		cur project.Located
		err error
	)
	switch parts[0] {
	case "result":
		cur, err = p.GetResult(id)
	case "bindings":
		cur, err = p.GetBindings(id)
	default:
		return project.Located{}, fmt.Errorf("path %q must start with result or bindings", spec)
	}
	if err != nil {
		return project.Located{}, err
	}
	for _, part := range parts[1:] {
		edge := valuepath.KeyEdge(part)
		if _, isList := cur.Value.(value.Array); isList {
			i, convErr := strconv.Atoi(part)
			if convErr != nil {
				return project.Located{}, fmt.Errorf("%s is a list; %q is not an index", cur.Location.Path, part)
			}
			edge = valuepath.IndexEdge(i)
		}
		next, ok := cur.Child(edge)
		if !ok {
			return project.Located{}, fmt.Errorf("no value at %s", cur.Location.Path.Extend(edge))
		}
		cur = next
	}
	return cur, nil
}

type locatedReport struct {
	Path   valuepath.Path `json:"path" yaml:"path"`
	Value  any            `json:"value" yaml:"value"`
	Source string         `json:"source" yaml:"source"`
	Line   uint32         `json:"line,omitempty" yaml:"line,omitempty"`
	Col    uint32         `json:"col,omitempty" yaml:"col,omitempty"`
}

func printLocated(w io.Writer, format outputFormat, v project.Located, fs *source.FileSet) error {
	report := locatedReport{Path: v.Location.Path, Value: plainValue(v.Value), Source: v.Location.SourceID}
	if span, err := v.Location.Span(); err == nil {
		if f, ok := fs.Get(v.Location.SourceID); ok {
			start, _ := f.Resolve(span)
			report.Line, report.Col = start.Line, start.Col
		}
	}
	if format != formatText {
		return encode(w, format, report)
	}
	where := report.Source
	if report.Line > 0 {
		where = fmt.Sprintf("%s:%d:%d", report.Source, report.Line, report.Col)
	}
	_, err := fmt.Fprintf(w, "%s\n// %s at %s\n", v.Value.String(), report.Path, where)
	return err
}
