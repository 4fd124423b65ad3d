/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.  Bot
passwords are not printed.
`,
	Run: func(cmd *cobra.Command, args []string) {
		// Note, you can only talk about persistent flags here.  Command-specific ones won't be
		// visible.
		fmt.Printf("Dump current config state:\n\n")

		fmt.Printf("  Config file: %s\n", ConfigActual)
		fmt.Printf("  Debug: %v\n", Debug)
		fmt.Println()
		fmt.Printf("  Wikis:\n")
		for _, src := range ParsedConfig.Wiki {
			fmt.Printf("    - %s (%s): %s as %s, password %s\n",
				src.Key, src.DisplayName(), src.URL, src.BotName, maskedPassword(src.BotPassword))
		}
		fmt.Println()
		fmt.Printf("  LocalStore: %s\n", LocalStore)
		fmt.Printf("  LogFile: %s\n", LogFile)
		fmt.Printf("  BacklogDay: %d\n", BacklogDay)
		fmt.Printf("  ExcludePrefixes: %q\n", ExcludePrefixes)
		fmt.Printf("  Locale: %s\n", Locale)
	},
}

func init() {
	configCmd.AddCommand(showCmd)
}

func maskedPassword(pw string) string {
	if pw == "" {
		return "(unset)"
	}
	return strings.Repeat("*", 8)
}
