// Package cmd provides helpers for executing shell commands with proper error handling.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/gmux-sh/gmux/internal/log"
)

// Run executes a command and returns stderr in the error message if it fails
func Run(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return fmt.Errorf("%s", errMsg)
		}
		return err
	}
	return nil
}

// Output executes a command and returns stdout, with stderr in error if it fails
func Output(cmd *exec.Cmd) ([]byte, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return nil, fmt.Errorf("%s", errMsg)
		}
		return nil, err
	}
	return output, nil
}

// RunContext executes a command with context support and verbose logging.
// The working directory is set on the subprocess itself; the caller's
// current directory is never touched, so concurrent calls can't race.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	l := log.FromContext(ctx)
	done := l.Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	err := Run(c)

	done(time.Since(start))
	return err
}

// OutputContext executes a command with context support and verbose logging,
// returning stdout. The working directory is set on the subprocess itself.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	l := log.FromContext(ctx)
	done := l.Command(dir, name, args...)
	start := time.Now()

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	out, err := Output(c)

	done(time.Since(start))
	return out, err
}
