package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"squiggle/internal/compiler"
	"squiggle/internal/diagfmt"
	"squiggle/internal/parser"
	"squiggle/internal/project"
	"squiggle/internal/stdlib"
	"squiggle/internal/trace"
	"squiggle/internal/value"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.squiggle",
	Short: "Print the syntax tree or the compiled form of a source",
	Long: `Parse prints the syntax tree of a source. With --emit expr the source is
compiled against the standard library and the exports of its imports, which
are run first.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "text", "output format for --emit ast (text|json)")
	parseCmd.Flags().String("emit", "ast", "what to print (ast|expr)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := readFormat(cmd)
	if err != nil {
		return err
	}
	emit, err := cmd.Flags().GetString("emit")
	if err != nil {
		return fmt.Errorf("failed to get emit flag: %w", err)
	}
	ws, err := openWorkspace(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p := project.New(project.Options{Linker: ws.linker, Env: ws.env, Tracer: trace.FromContext(ctx)})
	text, err := ws.linker.LoadSource(ctx, ws.mainID)
	if err != nil {
		return err
	}
	p.SetSource(ws.mainID, text)

	tree, perr := parser.Parse(ws.mainID, text)
	if perr != nil {
		return renderDiagnostics(cmd, perr, fileSet(p), format)
	}

	out := cmd.OutOrStdout()
	switch emit {
	case "ast":
		if format == formatText {
			return diagfmt.FormatASTPretty(out, tree)
		}
		return diagfmt.FormatASTJSON(out, tree)
	case "expr":
	default:
		return fmt.Errorf("unknown --emit value %q (expected ast|expr)", emit)
	}

	imports, err := p.GetImports(ws.mainID)
	if err != nil {
		return renderDiagnostics(cmd, err, fileSet(p), format)
	}
	externals := stdlib.Bindings()
	for _, imp := range imports {
		if err := p.Run(ctx, imp.SourceID); err != nil {
			return renderDiagnostics(cmd, err, fileSet(p), format)
		}
		exports, err := p.GetExports(imp.SourceID)
		if err != nil {
			return err
		}
		dict, _ := exports.Value.(value.Dict)
		if imp.Kind == project.ImportNamed {
			externals = externals.Set(imp.Variable, dict)
		} else {
			externals = externals.Merge(dict)
		}
	}
	prog, err := compiler.Compile(ws.mainID, tree, externals)
	if err != nil {
		return renderDiagnostics(cmd, err, fileSet(p), format)
	}
	_, err = fmt.Fprintln(out, prog.String())
	return err
}
