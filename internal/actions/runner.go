// Package actions implements the handlers behind every dispatchable
// intent: application control, system queries, media keys, timers,
// arithmetic, and weather lookups. Handlers talk to the operating system
// exclusively through CommandRunner so tests can swap in a fake and the
// per-platform command tables stay data, not behavior.
package actions

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"spark/internal/logging"
)

// CommandRunner abstracts process execution for handlers.
type CommandRunner interface {
	// Run executes name with args and returns combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
	// LookPath reports whether the named binary is available.
	LookPath(name string) bool
}

// ExecRunner is the production CommandRunner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	logging.ActionsDebug("exec: %s %s", name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		out := strings.TrimSpace(buf.String())
		if out != "" {
			return out, fmt.Errorf("%s: %w (%s)", name, err, out)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (ExecRunner) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
