package sh

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type DirectoryPath string

// Runner executes an external program in a directory and returns its trimmed combined output.
type Runner interface {
	Run(ctx context.Context, cwd DirectoryPath, env []string, name string, args ...string) (string, error)
}

// ExitError is returned when a command could not be started or exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExitError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, cwd DirectoryPath, env []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = string(cwd)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return output, &ExitError{
			Command:  CommandLine(name, args...),
			ExitCode: exitCode,
			Output:   output,
			Err:      err,
		}
	}
	return output, nil
}

// CommandLine renders a command for logs. It is not shell-quoted.
func CommandLine(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
