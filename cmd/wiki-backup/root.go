/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/wiki-backup/backupset"
	"github.com/toothbrush/wiki-backup/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configEnv     = "WIKI_BACKUP_CONFIG"
	defaultConfig = "./config.json"
)

var (
	// Store the result of binding cobra flags
	Config string
	Debug  bool

	// Where the config was actually read from, after env and homedir expansion
	ConfigActual string

	LocalStore      string
	LogFile         string
	BacklogDay      int
	ExcludePrefixes []string
	Locale          string

	ParsedConfig config.File

	// Logger writes to stderr and the rotated log file.  Commands log through this, not the log
	// package's default.
	Logger = log.New(os.Stderr, "", log.LstdFlags)

	logFile *lumberjack.Logger
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "wiki-backup",
	Short: "Back up recently changed MediaWiki pages into a git repository",
	Long: `
Keep a plain-text history of your wikis in git.  Each run asks every configured wiki which pages
were edited or created on a given day, saves the current wikitext of each into the store, commits
per wiki and pushes once if anything changed.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("wiki-backup: failed to initialise config: %w", err)
		}

		if err := initializeLogger(); err != nil {
			return fmt.Errorf("wiki-backup: failed to open log file: %w", err)
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ./config.json, respects "+configEnv+")")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringVar(&LocalStore, "store", ".", "git work tree to save page snapshots in")
	rootCmd.PersistentFlags().StringVar(&LogFile, "log-file", "auto_sync.log", "append log lines to this file as well as stderr")
	rootCmd.PersistentFlags().IntVar(&BacklogDay, "backlog-day", backupset.DefaultLookbackDays, "back up the changes made this many days ago")
	rootCmd.PersistentFlags().StringArrayVar(&ExcludePrefixes, "exclude-prefix", []string{}, `skip titles starting with this prefix (repeatable; default: built-in list, "" to skip nothing)`)
	rootCmd.PersistentFlags().StringVar(&Locale, "locale", "C.UTF-8", "LC_ALL/LANG to run git with")
}

// resolveConfigPath picks the config file: the flag, then the environment, then ./config.json.
func resolveConfigPath(flagValue string) (string, error) {
	path := flagValue
	if path == "" {
		// Did the user provide an ENV?
		if envConfig := os.Getenv(configEnv); envConfig != "" {
			path = envConfig
		} else {
			path = defaultConfig
		}
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("wiki-backup: unable to expand homedir: %w", err)
	}
	return expanded, nil
}

func initializeConfig(cmd *cobra.Command) error {
	path, err := resolveConfigPath(Config)
	if err != nil {
		return err
	}
	ConfigActual = path

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("wiki-backup: config file %s does not exist, override with --config: %w", ConfigActual, err)
	}

	parsed, err := config.Load(ConfigActual)
	if err != nil {
		return err
	}
	ParsedConfig = parsed

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("wiki-backup: failed to bind flags: %w", err)
	}

	debugLog("config %s: %d wiki source(s)\n", ConfigActual, len(ParsedConfig.Wiki))
	return nil
}

// initializeLogger points Logger at stderr plus the rotated log file.  Calling it again once the
// file is open does nothing.
func initializeLogger() error {
	if LogFile == "" || logFile != nil {
		return nil
	}

	path, err := homedir.Expand(LogFile)
	if err != nil {
		return fmt.Errorf("wiki-backup: unable to expand homedir: %w", err)
	}

	rotated := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     90, // days
	}
	logFile = rotated
	Logger = log.New(io.MultiWriter(os.Stderr, rotated), "", log.LstdFlags)

	return nil
}

// Bind each cobra flag to its config file value, unless the flag was given on the command line.
func bindFlags(cmd *cobra.Command, v config.File) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("flag")
		if key == "" {
			// not a flag, e.g. the wiki sources
			continue
		}
		if flag := cmd.Flag(key); flag == nil {
			// hmm... the flag is unknown.  but that can legitimately happen if you're running
			// e.g. `list changes` which has no `write-markdown` flag but your config file does
			// define it...
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		var err error
		switch field.Kind() {
		case reflect.Ptr:
			switch p := field.Value().(type) {
			case *bool:
				if p != nil {
					err = cmd.Flags().Set(key, fmt.Sprintf("%v", *p))
				}
			case *int:
				if p != nil {
					err = cmd.Flags().Set(key, fmt.Sprintf("%d", *p))
				}
			default:
				return fmt.Errorf("wiki-backup: found unrecognised field: %s", field.Name())
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("wiki-backup: found unrecognised field: %s", field.Name())
			}
			if s != "" {
				err = cmd.Flags().Set(key, s)
			}

		case reflect.Slice:
			ss, ok := field.Value().([]string)
			if !ok {
				return fmt.Errorf("wiki-backup: found unrecognised field: %s", field.Name())
			}
			for _, s := range ss {
				// yes, repeatedly calling Set() appends to the slice...
				if err = cmd.Flags().Set(key, s); err != nil {
					break
				}
			}

		default:
			return fmt.Errorf("wiki-backup: found unrecognised field: %s", field.Name())
		}

		if err != nil {
			return fmt.Errorf("wiki-backup: config value for %s: %w", key, err)
		}
	}

	return nil
}

// excludePrefixes turns the flag into the selector's notion: nothing given means the built-in list.
func excludePrefixes() []string {
	if len(ExcludePrefixes) == 0 {
		return nil
	}
	return ExcludePrefixes
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	defer func() {
		if logFile != nil {
			logFile.Close()
			logFile = nil
		}
	}()

	// Flags are only available after (or inside, presumably) the .Execute() thing.
	if err := rootCmd.Execute(); err != nil {
		err = fmt.Errorf("wiki-backup: execution error: %w", err)
		reportError(err)
		return err
	}

	return nil
}

// reportError logs a failed run.  A bad config fails before PersistentPreRunE gets to open the log
// file, so open it here: LogFile still holds the flag or its default then.
func reportError(err error) {
	if lerr := initializeLogger(); lerr != nil {
		Logger.Printf("wiki-backup: failed to open log file: %v", lerr)
	}
	Logger.Print(err)
}
