package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"squiggle/internal/project"
	"squiggle/internal/trace"
)

var depsCmd = &cobra.Command{
	Use:   "deps [flags] [file.squiggle|dir]",
	Short: "Show the dependency graph and run order of a source",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDeps,
}

func init() {
	depsCmd.Flags().String("format", "text", "output format (text|json|yaml)")
}

type depsReport struct {
	Entry   string       `json:"entry" yaml:"entry"`
	Batches [][]string   `json:"batches" yaml:"batches"`
	Cyclic  []string     `json:"cyclic,omitempty" yaml:"cyclic,omitempty"`
	Sources []sourceDeps `json:"sources" yaml:"sources"`
}

type sourceDeps struct {
	ID         string       `json:"id" yaml:"id"`
	Continues  []string     `json:"continues,omitempty" yaml:"continues,omitempty"`
	Imports    []importInfo `json:"imports,omitempty" yaml:"imports,omitempty"`
	Dependents []string     `json:"dependents,omitempty" yaml:"dependents,omitempty"`
}

type importInfo struct {
	Name     string `json:"name" yaml:"name"`
	SourceID string `json:"source" yaml:"source"`
	Kind     string `json:"kind" yaml:"kind"`
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty"`
}

func runDeps(cmd *cobra.Command, args []string) error {
	format, err := readFormat(cmd)
	if err != nil {
		return err
	}
	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	ws, err := openWorkspace(target)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	p := project.New(project.Options{Linker: ws.linker, Env: ws.env, Tracer: trace.FromContext(ctx)})
	if err := p.LoadImportsRecursively(ctx, ws.mainID); err != nil {
		return renderDiagnostics(cmd, err, fileSet(p), format)
	}
	report, err := buildDepsReport(p, ws.mainID)
	if err != nil {
		return renderDiagnostics(cmd, err, fileSet(p), format)
	}
	if format != formatText {
		return encode(cmd.OutOrStdout(), format, report)
	}
	return printDeps(cmd.OutOrStdout(), report)
}

func buildDepsReport(p *project.Project, entry string) (depsReport, error) {
	order, err := p.GetRunOrderFor(entry)
	if err != nil {
		return depsReport{}, err
	}
	report := depsReport{Entry: entry, Batches: order.Batches, Cyclic: order.Cyclic}
	for _, id := range order.Flat() {
		continues, err := p.GetContinues(id)
		if err != nil {
			return depsReport{}, err
		}
		imports, err := p.GetImports(id)
		if err != nil {
			return depsReport{}, err
		}
		sd := sourceDeps{ID: id, Continues: continues, Dependents: p.GetDependents(id)}
		for _, imp := range imports {
			sd.Imports = append(sd.Imports, importInfo{
				Name:     imp.Name,
				SourceID: imp.SourceID,
				Kind:     imp.Kind.String(),
				Variable: imp.Variable,
			})
		}
		report.Sources = append(report.Sources, sd)
	}
	return report, nil
}

func printDeps(w io.Writer, report depsReport) error {
	var b strings.Builder
	for i, batch := range report.Batches {
		fmt.Fprintf(&b, "batch %d: %s\n", i+1, strings.Join(batch, ", "))
	}
	if len(report.Cyclic) > 0 {
		fmt.Fprintf(&b, "cyclic: %s\n", strings.Join(report.Cyclic, ", "))
	}
	for _, sd := range report.Sources {
		b.WriteString("\n" + sd.ID + "\n")
		for _, c := range sd.Continues {
			fmt.Fprintf(&b, "  continues %s\n", c)
		}
		for _, imp := range sd.Imports {
			if imp.Kind == project.ImportNamed.String() {
				fmt.Fprintf(&b, "  import %q as %s -> %s\n", imp.Name, imp.Variable, imp.SourceID)
			} else {
				fmt.Fprintf(&b, "  import %q as * -> %s\n", imp.Name, imp.SourceID)
			}
		}
		if len(sd.Dependents) > 0 {
			fmt.Fprintf(&b, "  used by %s\n", strings.Join(sd.Dependents, ", "))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
