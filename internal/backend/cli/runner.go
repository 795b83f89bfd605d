package cli

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// SpawnFailureCode is the reserved pseudo-exit-code reported when the
// executable could not be started at all (path missing, permission denied,
// argument too long). It is distinct from any exit code the process itself
// can produce; the immediate cause is returned as the sole output line.
const SpawnFailureCode = -255

// Runner executes the backend executable synchronously and captures its
// output. One Runner is safe for concurrent use; each Run is an independent
// process.
type Runner struct {
	path string
}

// NewRunner creates a Runner for the executable at path.
func NewRunner(path string) *Runner {
	return &Runner{path: path}
}

// Path returns the configured executable path.
func (r *Runner) Path() string {
	return r.path
}

// Run starts the process, waits for it to exit fully, and returns its exit
// code plus the captured output as an ordered line sequence: all stdout
// lines first, then all stderr lines. Callers cannot distinguish the origin
// stream. A single trailing line terminator is stripped from each stream
// before splitting.
func (r *Runner) Run(ctx context.Context, command *Command) (int, []string) {
	cmd := exec.CommandContext(ctx, r.path, command.Args()...)
	setRawCommandLine(cmd, r.path, command.CommandLine())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return SpawnFailureCode, []string{err.Error()}
	}

	err := cmd.Wait()
	lines := append(splitLines(stdout.String()), splitLines(stderr.String())...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), lines
		}
		// Wait failed for a reason other than a nonzero exit
		// (e.g. the context was cancelled mid-run).
		return SpawnFailureCode, append(lines, err.Error())
	}
	return 0, lines
}

// splitLines strips a single trailing line terminator and splits on line
// boundaries. An empty capture yields no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
