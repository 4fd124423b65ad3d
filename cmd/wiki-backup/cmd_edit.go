/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/wiki-backup/syncer"
)

var editUsage = strings.TrimSpace(`
Replace the text of one page with the contents of a file (or stdin, with --file -), as the
configured bot.  Arithmetic captchas are answered automatically.  Handy for restoring a page from
the backup store.
`)

var (
	EditSource  string
	EditTitle   string
	EditFile    string
	EditSummary string
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Overwrite a wiki page",
	Long:  editUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSources(); err != nil {
			return err
		}

		src, ok := ParsedConfig.Source(EditSource)
		if !ok {
			return fmt.Errorf("wiki-backup: no wiki %q in %s", EditSource, ConfigActual)
		}

		text, err := readEditText(EditFile)
		if err != nil {
			return err
		}

		api, err := newAPI(src)
		if err != nil {
			return err
		}

		return api.WithSession(cmd.Context(), func(ctx context.Context) error {
			success, raw, err := api.PostEdit(ctx, EditTitle, text, EditSummary)
			if err != nil {
				return err
			}
			if !success {
				fmt.Printf("%s\n", raw)
				return fmt.Errorf("wiki-backup: edit of %q on %s was refused", EditTitle, src.DisplayName())
			}

			Logger.Printf("Edited %s on %s", EditTitle, src.DisplayName())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&EditSource, "source", "", "wiki to edit (its key in the config)")
	editCmd.Flags().StringVar(&EditTitle, "title", "", "title of the page to replace")
	editCmd.Flags().StringVar(&EditFile, "file", "", "file holding the new wikitext, - for stdin")
	editCmd.Flags().StringVar(&EditSummary, "summary", syncer.BotComment, "edit summary")

	editCmd.MarkFlagRequired("source")
	editCmd.MarkFlagRequired("title")
	editCmd.MarkFlagRequired("file")
}

func readEditText(file string) (string, error) {
	if file == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("wiki-backup: couldn't read stdin: %w", err)
		}
		return string(b), nil
	}

	path, err := homedir.Expand(file)
	if err != nil {
		return "", fmt.Errorf("wiki-backup: couldn't expand homedir: %w", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("wiki-backup: couldn't read %s: %w", path, err)
	}
	return string(b), nil
}
