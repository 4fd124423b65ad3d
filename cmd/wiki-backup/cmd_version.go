/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the module version and git revision this binary was built from",
	Long: `
Show the module version and git revision this binary was built from.  Doesn't need a config file.
`,
	Args: cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return fmt.Errorf("wiki-backup: binary carries no build info")
		}
		fmt.Fprintln(cmd.OutOrStdout(), describeBuild(info))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// describeBuild renders e.g. "wiki-backup v1.2.0 rev 3f2a9c1e0b7d dirty (go1.22.1)".  A binary
// built from a checkout has "(devel)" as its module version, which is left out.
func describeBuild(info *debug.BuildInfo) string {
	parts := []string{"wiki-backup"}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		parts = append(parts, v)
	}

	var revision string
	var dirty bool
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			revision = kv.Value
		case "vcs.modified":
			dirty = kv.Value == "true"
		}
	}
	if revision != "" {
		if len(revision) > 12 {
			revision = revision[:12]
		}
		parts = append(parts, "rev", revision)
		if dirty {
			parts = append(parts, "dirty")
		}
	}
	if len(parts) == 1 {
		parts = append(parts, "devel")
	}

	return fmt.Sprintf("%s (%s)", strings.Join(parts, " "), info.GoVersion)
}
