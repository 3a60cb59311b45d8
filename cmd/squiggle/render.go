package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"squiggle/internal/diag"
	"squiggle/internal/diagfmt"
	"squiggle/internal/source"
	"squiggle/internal/value"
)

// errReported marks an error whose diagnostics were already printed.
var errReported = errors.New("diagnostics reported")

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func readFormat(cmd *cobra.Command) (outputFormat, error) {
	s, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f := outputFormat(s); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	case "pretty":
		return formatText, nil
	}
	return "", fmt.Errorf("unknown format %q (expected text|json|yaml)", s)
}

// encode writes v as an indented JSON or YAML document.
func encode(w io.Writer, format outputFormat, v any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// diagErrors flattens err, which may be an errors.Join tree, into its
// tagged errors. ok is false when err carries none.
func diagErrors(err error) (out []*diag.Error, ok bool) {
	var walk func(error)
	walk = func(e error) {
		if joined, isJoin := e.(interface{ Unwrap() []error }); isJoin {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		if de, isDiag := diag.As(e); isDiag {
			out = append(out, de)
			ok = true
			return
		}
		out = append(out, diag.Errorf(diag.UnknownCode, "", "%v", e))
	}
	if err != nil {
		walk(err)
	}
	return out, ok
}

// renderDiagnostics prints the tagged errors in err and returns
// errReported, or err itself when it carries no tagged error.
func renderDiagnostics(cmd *cobra.Command, err error, fs *source.FileSet, format outputFormat) error {
	errs, ok := diagErrors(err)
	if !ok {
		return err
	}
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if maxDiagnostics > 0 && len(errs) > maxDiagnostics {
		errs = errs[:maxDiagnostics]
	}
	switch format {
	case formatJSON:
		err = diagfmt.JSON(cmd.OutOrStdout(), errs, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	case formatYAML:
		err = diagfmt.YAML(cmd.OutOrStdout(), errs, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	default:
		err = diagfmt.Pretty(cmd.ErrOrStderr(), errs, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd, stderrFile(cmd)),
			Context:   2,
			ShowNotes: true,
			ShowCause: true,
		})
	}
	if err != nil {
		return err
	}
	return errReported
}

// reportError prints errors that reached main unrendered.
func reportError(cmd *cobra.Command, err error) {
	if errors.Is(err, errReported) {
		return
	}
	if errs, ok := diagErrors(err); ok {
		_ = diagfmt.Pretty(cmd.ErrOrStderr(), errs, nil, diagfmt.PrettyOpts{Color: useColor(cmd, stderrFile(cmd)), ShowNotes: true})
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
}

// orderedDict keeps dict keys in insertion order through JSON and YAML.
type orderedDict struct {
	keys   []string
	values []any
}

func (d orderedDict) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.values[i])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (d orderedDict) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for i, k := range d.keys {
		var val yaml.Node
		if err := val.Encode(d.values[i]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &val)
	}
	return node, nil
}

// plainValue converts v into JSON and YAML friendly Go values. Lambdas
// and non-finite numbers are rendered as their display strings.
func plainValue(v value.Value) any {
	switch v := v.(type) {
	case value.Void:
		return nil
	case value.Number:
		if math.IsInf(v.V, 0) || math.IsNaN(v.V) {
			return v.String()
		}
		return v.V
	case value.String:
		return v.V
	case value.Bool:
		return v.V
	case value.Array:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = plainValue(item)
		}
		return out
	case value.Dict:
		d := orderedDict{keys: v.Keys(), values: make([]any, 0, v.Len())}
		for _, e := range v.Entries() {
			d.values = append(d.values, plainValue(e.Value))
		}
		return d
	case nil:
		return nil
	}
	return v.String()
}
