package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/wiki-backup/config"
)

type boundFlags struct {
	store      string
	backlogDay int
	exclude    []string
	markdown   bool
	progress   bool
}

func newBindCommand(b *boundFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&b.store, "store", ".", "")
	cmd.Flags().IntVar(&b.backlogDay, "backlog-day", 1, "")
	cmd.Flags().StringArrayVar(&b.exclude, "exclude-prefix", []string{}, "")
	cmd.Flags().BoolVar(&b.markdown, "write-markdown", false, "")
	cmd.Flags().BoolVar(&b.progress, "progress", false, "")
	return cmd
}

func TestBindFlagsFromConfig(t *testing.T) {
	var b boundFlags
	cmd := newBindCommand(&b)
	require.NoError(t, cmd.ParseFlags(nil))

	days := 3
	yes := true
	withVCR := true
	file := config.File{
		Store:           "/srv/backup",
		BacklogDay:      &days,
		ExcludePrefixes: []string{"Talk:", "User:"},
		WriteMarkdown:   &yes,
		// no such flag on this command
		WithVCR: &withVCR,
	}

	require.NoError(t, bindFlags(cmd, file))

	assert.Equal(t, "/srv/backup", b.store)
	assert.Equal(t, 3, b.backlogDay)
	assert.Equal(t, []string{"Talk:", "User:"}, b.exclude)
	assert.True(t, b.markdown)
	assert.False(t, b.progress)
}

func TestBindFlagsCommandLineWins(t *testing.T) {
	var b boundFlags
	cmd := newBindCommand(&b)
	require.NoError(t, cmd.ParseFlags([]string{"--store", "/tmp/cli", "--backlog-day", "2", "--exclude-prefix", "Draft:"}))

	days := 7
	file := config.File{
		Store:           "/srv/backup",
		BacklogDay:      &days,
		ExcludePrefixes: []string{"Talk:"},
	}
	require.NoError(t, bindFlags(cmd, file))

	assert.Equal(t, "/tmp/cli", b.store)
	assert.Equal(t, 2, b.backlogDay)
	assert.Equal(t, []string{"Draft:"}, b.exclude)
}

func TestBindFlagsLeavesDefaults(t *testing.T) {
	var b boundFlags
	cmd := newBindCommand(&b)
	require.NoError(t, cmd.ParseFlags(nil))

	require.NoError(t, bindFlags(cmd, config.File{}))

	assert.Equal(t, ".", b.store)
	assert.Equal(t, 1, b.backlogDay)
	assert.Empty(t, b.exclude)
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(configEnv, "")

	path, err := resolveConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig, path)

	t.Setenv(configEnv, "/etc/wiki-backup.json")
	path, err = resolveConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, "/etc/wiki-backup.json", path)

	path, err = resolveConfigPath("/opt/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/opt/config.yaml", path)

	home, err := homedir.Dir()
	require.NoError(t, err)
	path, err = resolveConfigPath("~/wiki.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "wiki.json"), path)
}

func TestExcludePrefixes(t *testing.T) {
	saved := ExcludePrefixes
	t.Cleanup(func() { ExcludePrefixes = saved })

	ExcludePrefixes = []string{}
	assert.Nil(t, excludePrefixes())

	ExcludePrefixes = []string{""}
	assert.Equal(t, []string{""}, excludePrefixes())
}

func TestConfigErrorReachesLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "auto_sync.log")

	savedLogger := Logger
	t.Cleanup(func() {
		Logger = savedLogger
		logFile = nil
		Config = ""
		LogFile = "auto_sync.log"
		rootCmd.SetArgs(nil)
	})
	Logger = log.New(io.Discard, "", 0)

	rootCmd.SetArgs([]string{"config", "which", "--config", filepath.Join(dir, "missing.json"), "--log-file", logPath})
	err := Execute()
	require.Error(t, err)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "missing.json does not exist")
	assert.Nil(t, logFile, "closed on the way out")
}
