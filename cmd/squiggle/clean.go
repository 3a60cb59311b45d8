package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"squiggle/internal/cache"
	"squiggle/internal/config"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove cached run outputs",
	Long:  "Remove the output cache: [cache].dir of the nearest squiggle.toml, or the user cache directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	base := "."
	if len(args) > 0 && args[0] != "" {
		base = args[0]
	}
	manifest, ok, err := config.LoadManifest(base)
	if err != nil {
		return err
	}
	var disk *cache.DiskCache
	if ok && manifest.CacheDir() != "" {
		disk, err = cache.OpenDir(manifest.CacheDir())
	} else {
		disk, err = cache.OpenDiskCache("squiggle")
	}
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := disk.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", disk.Dir(), err)
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", displayPath(disk.Dir()))
	}
	return nil
}
