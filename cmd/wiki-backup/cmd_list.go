/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toothbrush/wiki-backup/config"
)

// ListSource narrows every list subcommand to one wiki.
var ListSource string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Look at what the wikis would hand a backup, without writing anything",
	Long: `
Commands in this namespace talk to the configured wikis read-only.  Nothing is written to the store
and git is never run.  Use --source to look at a single wiki.
`,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.PersistentFlags().StringVar(&ListSource, "source", "", "only this wiki (its key in the config)")
}

// listSources is every configured wiki, or just the one --source names.
func listSources(f config.File, key string) (config.Sources, error) {
	if key == "" {
		return f.Wiki, nil
	}
	src, ok := f.Source(key)
	if !ok {
		return nil, fmt.Errorf("wiki-backup: no wiki %q in %s", key, ConfigActual)
	}
	return config.Sources{src}, nil
}
