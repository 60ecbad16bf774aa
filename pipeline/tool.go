// Copyright 2026, the IGS dada2 pipeline contributors.

package pipeline

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// Tool describes one external program invocation.
type Tool struct {
	// Short label used in logs and error messages.
	Name string

	// The executable, resolved through PATH.
	Path string

	Args []string

	// Working directory for the invocation.
	Dir string

	// If set, combined stdout/stderr is captured to this file.
	LogFile string
}

// CommandLine renders the invocation as a shell-style string.
func (t Tool) CommandLine() string {
	return strings.Join(append([]string{t.Path}, t.Args...), " ")
}

// Result reports a completed invocation.
type Result struct {
	ExitStatus int
	LogFile    string
}

// Runner executes external tools. The pipeline never calls os/exec
// directly, so invocations can be faked in tests and suppressed by
// --dry-run.
type Runner interface {
	Run(t Tool) (Result, error)
}

// ToolError is returned when an external tool exits nonzero. Its
// exit status becomes the process exit code.
type ToolError struct {
	Tool       string
	ExitStatus int
	LogFile    string
}

func (e *ToolError) Error() string {
	if e.LogFile != "" {
		return fmt.Sprintf("%s exited with status %d, see %s", e.Tool, e.ExitStatus, e.LogFile)
	}
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitStatus)
}

// ExecRunner runs tools with os/exec, inheriting the environment.
// Each invocation blocks until the tool completes.
type ExecRunner struct {
	// Echo each command line before running it.
	Debug bool

	// Destination for the command echo. Defaults to stderr.
	Echo io.Writer
}

func (r *ExecRunner) Run(t Tool) (Result, error) {

	if r.Debug {
		echo := r.Echo
		if echo == nil {
			echo = os.Stderr
		}
		fmt.Fprintf(echo, "+ %s\n", t.CommandLine())
	}

	cmd := exec.Command(t.Path, t.Args...)
	cmd.Env = os.Environ()
	cmd.Dir = t.Dir

	if t.LogFile != "" {
		fid, err := os.Create(t.LogFile)
		if err != nil {
			return Result{}, errors.Wrapf(err, "creating session log for %s", t.Name)
		}
		defer fid.Close()
		cmd.Stdout = fid
		cmd.Stderr = fid
	} else {
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	if err != nil {
		var xerr *exec.ExitError
		if errors.As(err, &xerr) {
			return Result{ExitStatus: xerr.ExitCode(), LogFile: t.LogFile},
				&ToolError{Tool: t.Name, ExitStatus: xerr.ExitCode(), LogFile: t.LogFile}
		}
		return Result{}, errors.Wrapf(err, "starting %s", t.Name)
	}

	return Result{LogFile: t.LogFile}, nil
}

// DryRunner prints the commands that would run and executes nothing.
type DryRunner struct {
	Out io.Writer
}

func (r *DryRunner) Run(t Tool) (Result, error) {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "would run: %s\n", t.CommandLine())
	return Result{}, nil
}
