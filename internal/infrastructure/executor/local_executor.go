package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/doeshing/baishi/internal/domain"
	"github.com/doeshing/baishi/internal/ports"
)

// Exit codes reported for failures that carry no status of their own.
const (
	ExitCodeGeneric  = 1
	ExitCodeTimeout  = 124
	ExitCodeNotFound = 127
)

// waitDelay bounds how long Wait blocks on pipes held open by orphaned
// grandchildren after the shell has been killed.
const waitDelay = 2 * time.Second

// LocalExecutor runs commands on the host shell.
type LocalExecutor struct {
	maxOutput int
	log       ports.Logger
}

// NewLocalExecutor builds an executor capturing up to domain.MaxOutputBytes per stream.
func NewLocalExecutor(log ports.Logger) *LocalExecutor {
	return &LocalExecutor{maxOutput: domain.MaxOutputBytes, log: log}
}

// Execute implements ports.CommandExecutor. Every failure mode (non-zero
// exit, timeout, spawn error) is folded into the result.
func (e *LocalExecutor) Execute(ctx context.Context, command, shell string, timeout time.Duration) domain.ExecutionResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shell = ResolveShell(shell)
	c := exec.CommandContext(ctx, shell, ShellArgs(shell, command)...)
	c.WaitDelay = waitDelay
	setProcessGroup(c)

	stdout := newCappedBuffer(e.maxOutput)
	stderr := newCappedBuffer(e.maxOutput)
	c.Stdout = stdout
	c.Stderr = stderr

	start := time.Now()
	err := c.Run()

	result := domain.ExecutionResult{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.Truncated() || stderr.Truncated(),
		Duration:  time.Since(start),
	}
	if err == nil {
		result.Success = true
		return result
	}

	var exitErr *exec.ExitError
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		result.ExitCode = ExitCodeTimeout
		result.Stderr = appendLine(result.Stderr, "command timed out after "+timeout.String())
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		if result.ExitCode <= 0 {
			result.ExitCode = ExitCodeGeneric
		}
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist):
		result.ExitCode = ExitCodeNotFound
		result.Stderr = appendLine(result.Stderr, err.Error())
	default:
		result.ExitCode = ExitCodeGeneric
		result.Stderr = appendLine(result.Stderr, err.Error())
	}

	if e.log != nil {
		e.log.Debug("command failed", map[string]interface{}{
			"shell":     shell,
			"exit_code": result.ExitCode,
			"timed_out": result.TimedOut,
		})
	}
	return result
}

// ResolveShell returns shell, or $SHELL, or the platform fallback.
func ResolveShell(shell string) string {
	if shell = strings.TrimSpace(shell); shell != "" {
		return shell
	}
	if env := os.Getenv("SHELL"); env != "" {
		return env
	}
	if runtime.GOOS == "windows" {
		return "powershell"
	}
	return "/bin/sh"
}

// ShellArgs builds the argument list that makes shell run command.
func ShellArgs(shell, command string) []string {
	name := strings.ToLower(filepath.Base(shell))
	name = strings.TrimSuffix(name, ".exe")
	switch name {
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command", command}
	case "cmd":
		return []string{"/C", command}
	default:
		return []string{"-c", command}
	}
}

func appendLine(text, line string) string {
	if text == "" {
		return line
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text + line
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
