package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"squiggle/internal/version"
)

const versionTagline = "estimates, composed"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show squiggle build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := readFormat(cmd)
		if err != nil {
			return err
		}
		full, _ := cmd.Flags().GetBool("full")
		info := version.Current()
		if format != formatText {
			return encode(cmd.OutOrStdout(), format, info)
		}
		color.NoColor = !useColor(cmd, stdoutFile(cmd))
		renderVersionPretty(cmd.OutOrStdout(), info, full)
		return nil
	},
}

func init() {
	versionCmd.Flags().String("format", "text", "output format (text|json|yaml)")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
}

func renderVersionPretty(out io.Writer, info version.Info, full bool) {
	fmt.Fprintf(out, "squiggle %s: %s\n", version.Colored(), versionTagline)
	if !full {
		return
	}
	fmt.Fprintf(out, "commit:   %s\n", valueOrUnknown(info.GitCommit))
	fmt.Fprintf(out, "built:    %s\n", valueOrUnknown(info.BuildDate))
	fmt.Fprintf(out, "go:       %s\n", info.GoVersion)
	fmt.Fprintf(out, "platform: %s\n", info.Platform)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
