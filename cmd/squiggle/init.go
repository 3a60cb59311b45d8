package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"squiggle/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new squiggle project",
	Long: `Initialize a new squiggle project by creating a manifest (squiggle.toml)
and an entry point (main.squiggle). If [path|name] is omitted, initializes the
current directory. A non-existing name is created as a directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "squiggle-project"
	}

	manifestPath := filepath.Join(target, config.FileName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(defaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "main.squiggle")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMain), 0o600); err != nil {
			return fmt.Errorf("failed to write main.squiggle: %w", err)
		}
		createdMain = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized squiggle project in %s\n", displayPath(target))
	fmt.Fprintf(out, "  - %s\n", config.FileName)
	if createdMain {
		fmt.Fprintf(out, "  - main.squiggle\n")
	} else {
		fmt.Fprintf(out, "  - main.squiggle (existing)\n")
	}
	return nil
}

func defaultManifest(name string) string {
	return fmt.Sprintf(`# squiggle project manifest
[package]
name = %q

[run]
main = "main.squiggle"

[environment]
sample_count = 1000
seed = 1

[cache]
enabled = false
`, name)
}

const defaultMain = `// Entry point. Import other sources with
//   import "./lib" as lib
double(x) = x * 2
values = List.map([1, 2, 3], double)
List.reduce(values, 0, {|acc, x| acc + x})
`
