package vcs

import (
	"context"
	"strings"
)

// MockRunner is a Runner for tests.  It records every invocation and answers from Outputs, keyed
// by git subcommand ("pull", "add", "commit", "push").
type MockRunner struct {
	// Output lines to return per subcommand
	Outputs map[string][]string

	// Errors to return per subcommand
	Errors map[string]error

	// Every call, as "subcommand arg arg..."
	Calls []string

	// Dirs each call ran in
	Dirs []string
}

// NewMockRunner returns a MockRunner whose commits report "nothing to commit" unless told
// otherwise.
func NewMockRunner() *MockRunner {
	m := &MockRunner{
		Outputs: map[string][]string{},
		Errors:  map[string]error{},
	}
	m.NothingCommitted()
	return m
}

// Run implements the Runner interface
func (m *MockRunner) Run(ctx context.Context, dir string, args ...string) ([]string, error) {
	m.Calls = append(m.Calls, strings.Join(args, " "))
	m.Dirs = append(m.Dirs, dir)

	if len(args) == 0 {
		return nil, nil
	}
	return m.Outputs[args[0]], m.Errors[args[0]]
}

// Count returns how many times subcommand was run.
func (m *MockRunner) Count(subcommand string) int {
	n := 0
	for _, call := range m.Calls {
		if call == subcommand || strings.HasPrefix(call, subcommand+" ") {
			n++
		}
	}
	return n
}

// CommitMade makes every commit report a recorded change.
func (m *MockRunner) CommitMade() {
	m.Outputs["commit"] = []string{
		"[main 1a2b3c4] Wiki-Bot Backup",
		" 2 files changed, 10 insertions(+)",
	}
}

// NothingCommitted makes every commit report an empty index.
func (m *MockRunner) NothingCommitted() {
	m.Outputs["commit"] = []string{
		"On branch main",
		"nothing to commit, working tree clean",
	}
}
