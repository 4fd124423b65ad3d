// Package vcs drives the git binary for the backup: pull, add, commit, push.  Each call blocks until
// git exits.  Output is logged line by line as it arrives and handed back to the caller, who
// decides what happened from the text alone; exit codes are logged and otherwise ignored.
package vcs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Runner runs one git invocation in dir and returns its output lines, stdout and stderr
// interleaved in arrival order.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]string, error)
}

// ExecRunner is the Runner backed by os/exec.
type ExecRunner struct {
	// Binary defaults to "git".
	Binary string

	// Locale is exported as LC_ALL and LANG for the child only, e.g. "C.UTF-8".  It keeps the
	// output UTF-8 and untranslated, so the markers we look for are stable.  Empty leaves the
	// environment alone.
	Locale string

	Logger *log.Logger
}

func (e *ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]string, error) {
	binary := e.Binary
	if binary == "" {
		binary = "git"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Env = e.environ()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("vcs: couldn't open stdout of %s %s: %w", binary, strings.Join(args, " "), err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("vcs: couldn't open stderr of %s %s: %w", binary, strings.Join(args, " "), err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("vcs: couldn't start %s %s: %w", binary, strings.Join(args, " "), err)
	}

	var (
		mu    sync.Mutex
		lines []string
	)
	collect := func(r io.Reader) error {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			e.logf("%s", line)

			mu.Lock()
			lines = append(lines, line)
			mu.Unlock()
		}
		return scanner.Err()
	}

	// both pipes have to be drained while git runs, or it can block writing to the other one.
	var grp errgroup.Group
	grp.Go(func() error { return collect(stdout) })
	grp.Go(func() error { return collect(stderr) })
	readErr := grp.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return lines, fmt.Errorf("vcs: %s %s failed: %w", binary, strings.Join(args, " "), err)
		}
		e.logf("%s %s exited with status %d", binary, strings.Join(args, " "), exitErr.ExitCode())
	}

	if readErr != nil {
		return lines, fmt.Errorf("vcs: couldn't read output of %s %s: %w", binary, strings.Join(args, " "), readErr)
	}

	return lines, nil
}

func (e *ExecRunner) environ() []string {
	env := os.Environ()
	if e.Locale == "" {
		return env
	}
	return append(env, "LC_ALL="+e.Locale, "LANG="+e.Locale)
}

func (e *ExecRunner) logf(format string, a ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, a...)
	}
}
