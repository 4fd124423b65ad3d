/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/toothbrush/wiki-backup/backupset"
	"github.com/toothbrush/wiki-backup/config"
	"github.com/toothbrush/wiki-backup/mediawiki"
)

var listChangesUsage = strings.TrimSpace(`
Show which pages a backup would save right now: the titles changed on the backlog day, after
exclusions, and the file each would be written to.  Logs in and out of each wiki but writes
nothing.
`)

var listChangesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Print the pages the next backup would save",
	Long:  listChangesUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSources(); err != nil {
			return err
		}

		sources, err := listSources(ParsedConfig, ListSource)
		if err != nil {
			return err
		}

		var errs []error
		for _, src := range sources {
			if err := listChanges(cmd.Context(), src); err != nil {
				Logger.Printf("Couldn't list changes of %s: %v", src.DisplayName(), err)
				errs = append(errs, err)
			}
		}

		return errors.Join(errs...)
	},
}

func init() {
	listCmd.AddCommand(listChangesCmd)
}

func listChanges(ctx context.Context, src config.Source) error {
	api, err := newAPI(src)
	if err != nil {
		return err
	}

	return api.WithSession(ctx, func(ctx context.Context) error {
		selector := backupset.Selector{
			Feed:         api,
			LookbackDays: BacklogDay,
			Exclude:      excludePrefixes(),
		}
		set, truncated, err := selector.Select(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s): %d page(s)\n", src.DisplayName(), selector.TargetDay().Format(time.DateOnly), len(set))
		for _, title := range set.Titles() {
			fmt.Printf("  - %s: %s\n", title, set[title])
		}
		if truncated {
			fmt.Printf("  (more than %d changes, the rest are not listed)\n", mediawiki.RecentChangesLimit)
		}

		return nil
	})
}
