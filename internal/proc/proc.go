// Package proc runs external tools with a hard deadline. Every subprocess
// the service spawns (nmap, arp-scan, speedtest-cli, getent, ...) goes
// through Run so that shutdown and per-call timeouts behave the same way:
// SIGTERM first, SIGKILL after a half-second grace.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

const killGrace = 500 * time.Millisecond

// ErrTimeout marks a command that exceeded its deadline and was killed.
var ErrTimeout = errors.New("command timed out")

// Result captures one finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes name with args, enforcing timeout on top of ctx. On deadline
// the process receives SIGTERM, then SIGKILL once the grace period lapses.
func Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = killGrace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return res, fmt.Errorf("%s: %w after %s", name, ErrTimeout, timeout)
		}
		return res, fmt.Errorf("%s: %w%s", name, err, stderrTail(stderr.String()))
	}
	return res, nil
}

// Available reports whether a tool is installed on PATH. Callers disable the
// dependent feature for the run when this is false.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return ": " + strings.Join(lines, " | ")
}
