package probe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ProcessConfig configures the external-process probe.
type ProcessConfig struct {
	// Command is the executable to spawn.
	Command string

	// Args are passed to the command.
	Args []string

	// Timeout bounds the subprocess. When it fires the whole process tree
	// is forcibly terminated.
	// Default: 10 seconds
	Timeout time.Duration
}

// ProcessProbe spawns a subprocess and interprets its output.
//
// Stdout is first parsed as the JSON contract; otherwise the exit code
// convention applies: 0 healthy, 1 degraded, 2 unhealthy, anything else
// unhealthy with the code in the description.
type ProcessProbe struct {
	name   string
	tags   []string
	config ProcessConfig
}

// NewProcessProbe creates an external-process probe.
func NewProcessProbe(name string, tags []string, config ProcessConfig) (*ProcessProbe, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if config.Command == "" {
		return nil, ErrEmptyCommand
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &ProcessProbe{name: name, tags: NormalizeTags(tags), config: config}, nil
}

// Name returns the probe name.
func (p *ProcessProbe) Name() string {
	return p.name
}

// Tags returns the probe's tag set.
func (p *ProcessProbe) Tags() []string {
	return p.tags
}

// Check runs the subprocess and maps its outcome onto a result.
func (p *ProcessProbe) Check(ctx context.Context) (Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, p.config.Command, p.config.Args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Kill the whole process tree when the timeout fires, not just the
	// direct child; grace period before escalating to SIGKILL.
	setProcessGroup(cmd)
	cmd.Cancel = func() error { return killTree(cmd) }
	cmd.WaitDelay = 3 * time.Second

	runErr := cmd.Run()

	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	if runCtx.Err() != nil {
		return Degraded(timeoutDescription(p.config.Timeout)), nil
	}

	if result, ok := parseContract(stdout.Bytes()); ok {
		return result, nil
	}

	exitCode := 0
	if runErr != nil {
		exitErr, ok := runErr.(*exec.ExitError)
		if !ok {
			return Unhealthy(fmt.Sprintf("spawn failed: %v", runErr)), nil
		}
		exitCode = exitErr.ExitCode()
	}

	data := map[string]any{"exit_code": exitCode}
	if s := strings.TrimSpace(stderr.String()); s != "" {
		data["stderr"] = s
	}

	description := fmt.Sprintf("exit code %d", exitCode)
	switch exitCode {
	case 0:
		return Healthy(description).WithData(data), nil
	case 1:
		return Degraded(description).WithData(data), nil
	default:
		return Unhealthy(description).WithData(data), nil
	}
}
