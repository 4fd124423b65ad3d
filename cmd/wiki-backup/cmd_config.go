/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/wiki-backup/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the backup config",
	Long: `
Commands in this namespace help you check the backup configuration: which wikis get backed up, as
which bot, into which store, and which file all that was read from.
`,
}

var whichCmd = &cobra.Command{
	Use:   "which",
	Short: "Tell me which file the wikis were read from",
	Long: `
Print the resolved config path (after --config, ` + configEnv + ` and ~ expansion), how it was
decoded, and which wiki keys it defines, in backup order.
`,
	Args: cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		describeConfigFile(cmd.OutOrStdout(), ConfigActual, ParsedConfig)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(whichCmd)
}

func describeConfigFile(w io.Writer, path string, f config.File) {
	format := "JSON"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "YAML"
	}
	fmt.Fprintf(w, "Config path: %s (%s)\n", path, format)

	if len(f.Wiki) == 0 {
		fmt.Fprintf(w, "  no wikis defined\n")
		return
	}
	for _, src := range f.Wiki {
		fmt.Fprintf(w, "  %s: %s <%s>\n", src.Key, src.DisplayName(), src.URL)
	}
}
