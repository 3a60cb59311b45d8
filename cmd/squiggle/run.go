package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"squiggle/internal/observ"
	"squiggle/internal/pipeline"
	"squiggle/internal/project"
	"squiggle/internal/source"
	"squiggle/internal/trace"
	"squiggle/internal/value"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.squiggle|dir]",
	Short: "Run a squiggle source and everything it depends on",
	Long: `Run loads the entry source and its imports through the file linker,
runs them in dependency order and prints the entry's result. Without an
argument the entry is [run].main of the nearest squiggle.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSources,
}

func init() {
	flags := runCmd.Flags()
	flags.String("format", "text", "output format (text|json|yaml)")
	flags.Bool("bindings", false, "print top-level bindings as well as the result")
	flags.Bool("all", false, "run every source reachable from the entry")
	flags.String("at", "", "print only the value at a path, e.g. bindings/x/0")
	flags.Int("jobs", 0, "maximum sources run in parallel with --all (0 = unbounded)")
	flags.Bool("cache", false, "reuse outputs from the disk cache")
	flags.Bool("no-cache", false, "ignore the disk cache even if the manifest enables it")
	flags.Bool("clear-cache", false, "drop the disk cache before running")
	flags.Int("sample-count", 0, "override [environment].sample_count")
	flags.Uint64("seed", 0, "override [environment].seed")
	flags.Bool("profile", false, "record per-statement timings")
}

// runReport is the json/yaml form of a run.
type runReport struct {
	Source      string         `json:"source" yaml:"source"`
	Result      any            `json:"result,omitempty" yaml:"result,omitempty"`
	Bindings    any            `json:"bindings,omitempty" yaml:"bindings,omitempty"`
	ExecutionMS float64        `json:"execution_ms" yaml:"execution_ms"`
	Cached      bool           `json:"cached,omitempty" yaml:"cached,omitempty"`
	Profile     []profileEntry `json:"profile,omitempty" yaml:"profile,omitempty"`
}

type profileEntry struct {
	Name       string  `json:"name" yaml:"name"`
	Line       uint32  `json:"line" yaml:"line"`
	DurationMS float64 `json:"duration_ms" yaml:"duration_ms"`
}

func runSources(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()
	format, err := readFormat(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	uiFlag, _ := cmd.Root().PersistentFlags().GetString("ui")
	showBindings, _ := flags.GetBool("bindings")
	runAll, _ := flags.GetBool("all")
	at, _ := flags.GetString("at")
	jobs, _ := flags.GetInt("jobs")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	var ws *workspace
	if err = timer.Measure("workspace", func() error {
		ws, err = openWorkspace(target)
		return err
	}); err != nil {
		return err
	}
	if err = applyEnvFlags(cmd, &ws.env); err != nil {
		return err
	}
	outputCache, err := runCache(cmd, ws)
	if err != nil {
		return err
	}

	timing := &pipeline.TimingSink{}
	sinks := pipeline.MultiSink{timing}
	tui := wantProgressUI(mode, format, quiet, stdoutFile(cmd))
	var events chan pipeline.Event
	if tui {
		events = make(chan pipeline.Event, 256)
		sinks = append(sinks, pipeline.ChannelSink{Ch: events})
	}

	ctx := cmd.Context()
	opts := project.Options{
		Linker:      ws.linker,
		Env:         ws.env,
		Sink:        sinks,
		Tracer:      trace.FromContext(ctx),
		MaxParallel: jobs,
	}
	if outputCache != nil {
		opts.Cache = outputCache
	}
	p := project.New(opts)

	work := func(ctx context.Context) error {
		if !runAll {
			return p.Run(ctx, ws.mainID)
		}
		if err := p.LoadImportsRecursively(ctx, ws.mainID); err != nil {
			return err
		}
		return p.RunAll(ctx)
	}
	idx := timer.Begin("run")
	if tui {
		err = runWithUI(ctx, "squiggle run "+displayPath(ws.mainPath), []string{ws.mainID}, events, work)
	} else {
		err = work(ctx)
	}
	timer.End(idx, ws.mainID)

	fs := fileSet(p)
	if showTimings {
		defer printTimings(cmd.ErrOrStderr(), timing.Timings(), timer)
	}
	if err != nil {
		return renderDiagnostics(cmd, err, fs, format)
	}

	out, err := p.GetOutput(ws.mainID)
	if err != nil {
		return renderDiagnostics(cmd, err, fs, format)
	}
	if at != "" {
		located, err := locate(p, ws.mainID, at)
		if err != nil {
			return err
		}
		return printLocated(cmd.OutOrStdout(), format, located, fs)
	}
	return timer.Measure("render", func() error {
		return printOutput(cmd.OutOrStdout(), format, out, showBindings, fs)
	})
}

func applyEnvFlags(cmd *cobra.Command, env *value.Env) error {
	flags := cmd.Flags()
	if flags.Changed("sample-count") {
		n, err := flags.GetInt("sample-count")
		if err != nil {
			return err
		}
		if n <= 0 {
			return fmt.Errorf("--sample-count must be positive")
		}
		env.SampleCount = n
	}
	if flags.Changed("seed") {
		seed, err := flags.GetUint64("seed")
		if err != nil {
			return err
		}
		env.Seed = seed
	}
	if flags.Changed("profile") {
		profile, err := flags.GetBool("profile")
		if err != nil {
			return err
		}
		env.Profile = profile
	}
	return nil
}

// runCache opens the output cache when the flags or the manifest ask for
// it. A nil result disables caching.
func runCache(cmd *cobra.Command, ws *workspace) (project.OutputCache, error) {
	flags := cmd.Flags()
	enabled := ws.cacheEnabled()
	if flags.Changed("cache") {
		enabled, _ = flags.GetBool("cache")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		enabled = false
	}
	clearCache, _ := flags.GetBool("clear-cache")
	if !enabled && !clearCache {
		return nil, nil
	}
	mem, disk, err := ws.openCache()
	if err != nil {
		return nil, err
	}
	if clearCache {
		if err := disk.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	if !enabled {
		return nil, nil
	}
	return mem, nil
}

func printOutput(w io.Writer, format outputFormat, out *project.Output, showBindings bool, fs *source.FileSet) error {
	withBindings := showBindings || !out.HasEndExpression
	if format != formatText {
		report := runReport{
			Source:      out.SourceID,
			ExecutionMS: toMillis(out.ExecutionTime),
			Cached:      out.FromCache,
			Profile:     profileEntries(out, fs),
		}
		if out.HasEndExpression {
			report.Result = plainValue(out.Result)
		}
		if withBindings {
			report.Bindings = plainValue(out.Bindings)
		}
		return encode(w, format, report)
	}

	if out.HasEndExpression {
		if _, err := fmt.Fprintln(w, out.Result.String()); err != nil {
			return err
		}
	}
	if withBindings {
		for _, e := range out.Bindings.Entries() {
			if _, err := fmt.Fprintf(w, "%s = %s\n", e.Key, e.Value.String()); err != nil {
				return err
			}
		}
	}
	for _, pe := range profileEntries(out, fs) {
		if _, err := fmt.Fprintf(w, "// %s (line %d): %.3f ms\n", pe.Name, pe.Line, pe.DurationMS); err != nil {
			return err
		}
	}
	return nil
}

func profileEntries(out *project.Output, fs *source.FileSet) []profileEntry {
	if len(out.Profile) == 0 {
		return nil
	}
	f, _ := fs.Get(out.SourceID)
	entries := make([]profileEntry, 0, len(out.Profile))
	for _, st := range out.Profile {
		pe := profileEntry{Name: st.Name, DurationMS: toMillis(st.Duration)}
		if f != nil {
			start, _ := f.Resolve(st.Span)
			pe.Line = start.Line
		}
		entries = append(entries, pe)
	}
	return entries
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
