// Package envcli runs the envault command line tool on behalf of editors and
// other local integrations. Every call is bounded by a context and a timeout.
package envcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	DefaultBinary  = "envault"
	DefaultTimeout = 30 * time.Second
)

// ErrNotInstalled is returned when the binary cannot be found on PATH
var ErrNotInstalled = errors.New("envault CLI is not installed or not on PATH")

// ExitError is a run that exited with a non-zero status
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = "no output"
	}
	return fmt.Sprintf("envault %s exited with status %d: %s", strings.Join(e.Args, " "), e.Code, msg)
}

// Runner executes the CLI in Dir with Env appended to the process
// environment
type Runner struct {
	Binary  string
	Dir     string
	Timeout time.Duration
	Env     []string
	Logger  *slog.Logger
}

// NewRunner returns a runner for the default binary working in dir
func NewRunner(dir string) *Runner {
	return &Runner{Binary: DefaultBinary, Dir: dir, Timeout: DefaultTimeout}
}

func (r *Runner) binary() string {
	if r.Binary == "" {
		return DefaultBinary
	}
	return r.Binary
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run executes the CLI with args and returns its standard output
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	path, err := exec.LookPath(r.binary())
	if err != nil {
		return "", ErrNotInstalled
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	// Arguments may carry secret values, only the subcommand is logged
	r.logger().Debug("running envault", "command", subcommand(args), "dir", r.Dir)
	err = cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("envault %s: %w", subcommand(args), ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExitError{Args: args, Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrNotInstalled
		}
		return "", fmt.Errorf("envault %s: %w", subcommand(args), err)
	}
	return stdout.String(), nil
}

func subcommand(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
