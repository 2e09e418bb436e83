//go:build unix

package probe

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewProcessProbe_Validation(t *testing.T) {
	if _, err := NewProcessProbe("", nil, ProcessConfig{Command: "true"}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("NewProcessProbe() error = %v, want ErrEmptyName", err)
	}
	if _, err := NewProcessProbe("proc", nil, ProcessConfig{}); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("NewProcessProbe() error = %v, want ErrEmptyCommand", err)
	}
}

func TestProcessProbe_Check_ExitCodes(t *testing.T) {
	tests := []struct {
		name       string
		script     string
		wantStatus Status
		wantDesc   string
	}{
		{"exit 0", "exit 0", StatusHealthy, "exit code 0"},
		{"exit 1", "exit 1", StatusDegraded, "exit code 1"},
		{"exit 2", "exit 2", StatusUnhealthy, "exit code 2"},
		{"exit 7", "exit 7", StatusUnhealthy, "exit code 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProcessProbe("proc", nil, ProcessConfig{
				Command: "sh",
				Args:    []string{"-c", tt.script},
			})
			if err != nil {
				t.Fatalf("NewProcessProbe() error = %v", err)
			}

			result, err := p.Check(context.Background())
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Errorf("Check() Status = %v, want %v", result.Status, tt.wantStatus)
			}
			if result.Description != tt.wantDesc {
				t.Errorf("Check() Description = %q, want %q", result.Description, tt.wantDesc)
			}
		})
	}
}

func TestProcessProbe_Check_Contract(t *testing.T) {
	// Stdout carrying the JSON contract wins over the exit code.
	p, err := NewProcessProbe("proc", nil, ProcessConfig{
		Command: "sh",
		Args:    []string{"-c", `echo '{"status":"degraded","description":"replica lag"}'; exit 0`},
	})
	if err != nil {
		t.Fatalf("NewProcessProbe() error = %v", err)
	}

	result, err := p.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.Status != StatusDegraded {
		t.Errorf("Check() Status = %v, want StatusDegraded", result.Status)
	}
	if result.Description != "replica lag" {
		t.Errorf("Check() Description = %q, want %q", result.Description, "replica lag")
	}
}

func TestProcessProbe_Check_Stderr(t *testing.T) {
	p, err := NewProcessProbe("proc", nil, ProcessConfig{
		Command: "sh",
		Args:    []string{"-c", "echo broken >&2; exit 2"},
	})
	if err != nil {
		t.Fatalf("NewProcessProbe() error = %v", err)
	}

	result, err := p.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.Data["stderr"] != "broken" {
		t.Errorf("Data[stderr] = %v, want %q", result.Data["stderr"], "broken")
	}
	if result.Data["exit_code"] != 2 {
		t.Errorf("Data[exit_code] = %v, want 2", result.Data["exit_code"])
	}
}

func TestProcessProbe_Check_Timeout(t *testing.T) {
	p, err := NewProcessProbe("proc", nil, ProcessConfig{
		Command: "sleep",
		Args:    []string{"30"},
		Timeout: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewProcessProbe() error = %v", err)
	}

	start := time.Now()
	result, err := p.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v, a probe timeout must degrade rather than fail", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Check() took %v, the subprocess was not terminated", elapsed)
	}
	if result.Status != StatusDegraded {
		t.Errorf("Check() Status = %v, want StatusDegraded", result.Status)
	}
	if result.Description != "Timed out after 0.1s" {
		t.Errorf("Check() Description = %q, want %q", result.Description, "Timed out after 0.1s")
	}
}

func TestProcessProbe_Check_SpawnFailure(t *testing.T) {
	p, err := NewProcessProbe("proc", nil, ProcessConfig{
		Command: "/nonexistent/binary",
	})
	if err != nil {
		t.Fatalf("NewProcessProbe() error = %v", err)
	}

	result, err := p.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.Status != StatusUnhealthy {
		t.Errorf("Check() Status = %v, want StatusUnhealthy", result.Status)
	}
}

func TestProcessProbe_Check_CallerCancel(t *testing.T) {
	p, err := NewProcessProbe("proc", nil, ProcessConfig{
		Command: "sleep",
		Args:    []string{"30"},
	})
	if err != nil {
		t.Fatalf("NewProcessProbe() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err = p.Check(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Check() error = %v, want context.Canceled", err)
	}
}
