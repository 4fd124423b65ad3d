/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/wiki-backup/config"
	"github.com/toothbrush/wiki-backup/localdump"
	"github.com/toothbrush/wiki-backup/syncer"
	"github.com/toothbrush/wiki-backup/vcs"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

var backupUsage = strings.TrimSpace(`
Pull the store, save the current wikitext of every page edited or created on the backlog day
(yesterday, by default) for each configured wiki, commit once per wiki and push if anything was
committed.  The store has to be a git work tree with a remote set up already.

A wiki or page that fails is logged and skipped, the rest of the run carries on; the command still
exits non-zero afterwards.
`)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up recently changed pages of every configured wiki",
	Long:  backupUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		debugLog("  WriteMarkdown: %v\n", WriteMarkdown)
		debugLog("  WithVCR: %v\n", WithVCR)
		return runBackup(cmd)
	},
}

var (
	WriteMarkdown bool
	WithVCR       bool
	Progress      bool
)

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().BoolVar(&WriteMarkdown, "write-markdown", false, "also save a Markdown rendering of each page")
	backupCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to record and replay wiki responses under fixtures/")
	backupCmd.Flags().BoolVar(&Progress, "progress", false, "draw a progress bar per wiki")
}

func runBackup(cmd *cobra.Command) error {
	if err := requireSources(); err != nil {
		return err
	}

	storePath, err := homedir.Expand(LocalStore)
	if err != nil {
		return fmt.Errorf("wiki-backup: couldn't expand homedir: %w", err)
	}

	var recorders []*recorder.Recorder
	defer func() {
		// Make sure recorders are stopped once done, that's when cassettes get saved
		for _, r := range recorders {
			if err := r.Stop(); err != nil {
				Logger.Printf("Couldn't save recording: %v", err)
			}
		}
	}()

	connect := func(src config.Source) (syncer.Wiki, error) {
		api, err := newAPI(src)
		if err != nil {
			return nil, err
		}

		if WithVCR {
			r, err := api.Record(filepath.Join("fixtures", src.Key), recorder.ModeReplayWithNewEpisodes)
			if err != nil {
				return nil, err
			}
			recorders = append(recorders, r)
		}

		return api, nil
	}

	var progress io.Writer
	if Progress {
		progress = os.Stderr
	}

	s := &syncer.Syncer{
		Sources: ParsedConfig.Wiki,
		Connect: connect,
		Repo: &vcs.Repo{
			Dir:    storePath,
			Runner: &vcs.ExecRunner{Locale: Locale, Logger: Logger},
		},
		Writer:        &localdump.Writer{Root: storePath},
		LookbackDays:  BacklogDay,
		Exclude:       excludePrefixes(),
		WriteMarkdown: WriteMarkdown,
		Progress:      progress,
		Logger:        Logger,
	}

	Logger.Printf("Backing up %s into %s", strings.Join(ParsedConfig.Names(), ", "), storePath)
	if err := s.Run(cmd.Context()); err != nil {
		return err
	}
	Logger.Printf("Backup finished")

	return nil
}
