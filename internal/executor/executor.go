package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Executor runs command lines through a host shell.
// Input is passed to the shell unmodified.
type Executor struct {
	shell  string
	logger *log.Logger
}

// New creates a new executor that runs commands as `<shell> -c <cmd>`.
func New(shell string, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.Default().WithPrefix("exec")
	}
	return &Executor{shell: shell, logger: logger}
}

// Run executes cmdline and returns stdout and stderr interleaved in one string
// with a single trailing newline removed. A non-zero exit status is not an
// error. The command is not cancelled when ctx is.
func (e *Executor) Run(ctx context.Context, cmdline string) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(context.WithoutCancel(ctx), e.shell, "-c", cmdline) //nolint:gosec
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		e.logger.Debug("Command exited with non-zero status", "code", exitErr.ExitCode())
	default:
		return "", fmt.Errorf("failed to run command: %w", err)
	}

	return strings.TrimSuffix(out.String(), "\n"), nil
}
