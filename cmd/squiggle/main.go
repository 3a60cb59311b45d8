package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"squiggle/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "squiggle",
	Short:         "Squiggle project runner",
	Long:          `Squiggle runs projects of squiggle sources linked by imports and continuations`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		stop, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profileCleanup = stop
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		runCleanups()
	},
}

var (
	traceCleanup   = func() {}
	profileCleanup = func() {}
)

func runCleanups() {
	profileCleanup()
	traceCleanup()
	profileCleanup, traceCleanup = func() {}, func() {}
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("ui", "auto", "progress view (auto|on|off)")

	flags.String("trace", "", "write trace events to file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both); ring writes only after a failure")
	flags.Int("trace-ring-size", 4096, "ring buffer size for trace-mode ring")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval")

	flags.String("cpu-profile", "", "write CPU profile to file")
	flags.String("mem-profile", "", "write heap profile to file")
	flags.String("runtime-trace", "", "write Go runtime trace to file")
}

// main executes the root command. Any error is printed and exits with
// status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd, err)
		runCleanups()
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	flag, _ := cmd.Root().PersistentFlags().GetString("color")
	switch flag {
	case "on":
		return true
	case "off":
		return false
	default:
		return f != nil && isTerminal(f)
	}
}

func stderrFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		return f
	}
	return nil
}

func stdoutFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}
	return nil
}
