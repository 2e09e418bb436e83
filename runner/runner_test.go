package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/probeops/healthprobe/probe"
)

func mustFunc(t *testing.T, name string, tags []string, fn func(ctx context.Context) (probe.Result, error)) probe.Probe {
	t.Helper()
	p, err := probe.NewFunc(name, tags, fn)
	if err != nil {
		t.Fatalf("NewFunc(%q) error = %v", name, err)
	}
	return p
}

func healthyFunc(t *testing.T, name string, tags ...string) probe.Probe {
	return mustFunc(t, name, tags, func(ctx context.Context) (probe.Result, error) {
		return probe.Healthy(""), nil
	})
}

func TestRunner_Register(t *testing.T) {
	r := New()

	if err := r.Register(nil); !errors.Is(err, ErrNilProbe) {
		t.Errorf("Register(nil) error = %v, want ErrNilProbe", err)
	}

	if err := r.Register(healthyFunc(t, "disk")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(healthyFunc(t, "DISK")); !errors.Is(err, ErrDuplicateProbe) {
		t.Errorf("Register() error = %v, duplicate names must be rejected case-insensitively", err)
	}

	names := r.ProbeNames()
	if len(names) != 1 || names[0] != "disk" {
		t.Errorf("ProbeNames() = %v, want [disk]", names)
	}
}

func TestRunner_Run_Empty(t *testing.T) {
	r := New()

	report, err := r.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Status != probe.StatusHealthy {
		t.Errorf("Status = %v, an empty run must be healthy", report.Status)
	}
	if report.Summary.Total != 0 {
		t.Errorf("Summary.Total = %d, want 0", report.Summary.Total)
	}
}

func TestRunner_Run_TagFilter(t *testing.T) {
	var batchRan atomic.Bool
	r := New()
	if err := r.Register(healthyFunc(t, "api", "live")); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(healthyFunc(t, "db", "Live", "ready")); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(mustFunc(t, "warehouse", []string{"batch"}, func(ctx context.Context) (probe.Result, error) {
		batchRan.Store(true)
		return probe.Healthy(""), nil
	})); err != nil {
		t.Fatal(err)
	}

	report, err := r.Run(context.Background(), Options{TagFilter: []string{"LIVE"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Summary.Total != 2 {
		t.Errorf("Summary.Total = %d, want 2", report.Summary.Total)
	}
	if report.Probes[0].Name != "api" || report.Probes[1].Name != "db" {
		t.Errorf("Probes = %v, want [api db]", report.Probes)
	}
	if batchRan.Load() {
		t.Error("a filtered-out probe must not execute at all")
	}
}

func TestRunner_Run_TagFilterNoMatch(t *testing.T) {
	var ran atomic.Bool
	r := New()
	if err := r.Register(mustFunc(t, "api", []string{"live"}, func(ctx context.Context) (probe.Result, error) {
		ran.Store(true)
		return probe.Healthy(""), nil
	})); err != nil {
		t.Fatal(err)
	}

	report, err := r.Run(context.Background(), Options{TagFilter: []string{"batch"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Summary.Total != 0 {
		t.Errorf("Summary.Total = %d, want 0", report.Summary.Total)
	}
	if report.Status != probe.StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", report.Status)
	}
	if ran.Load() {
		t.Error("no probe should have been launched")
	}
}

func TestRunner_Run_SortedRegardlessOfLatency(t *testing.T) {
	r := New()
	if err := r.Register(mustFunc(t, "alpha", nil, func(ctx context.Context) (probe.Result, error) {
		time.Sleep(60 * time.Millisecond)
		return probe.Healthy(""), nil
	})); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(healthyFunc(t, "zeta")); err != nil {
		t.Fatal(err)
	}

	report, err := r.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Probes[0].Name != "alpha" || report.Probes[1].Name != "zeta" {
		t.Errorf("Probes = [%s %s], completion order must not leak into the report",
			report.Probes[0].Name, report.Probes[1].Name)
	}
}

func TestRunner_Run_Timeout(t *testing.T) {
	r := New()
	if err := r.Register(mustFunc(t, "slow", nil, func(ctx context.Context) (probe.Result, error) {
		select {
		case <-time.After(5 * time.Second):
			return probe.Healthy(""), nil
		case <-ctx.Done():
			return probe.Result{}, ctx.Err()
		}
	})); err != nil {
		t.Fatal(err)
	}

	report, err := r.Run(context.Background(), Options{ProbeTimeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("Run() error = %v, a probe timeout must not fail the run", err)
	}

	entry := report.Probes[0]
	if entry.Status != probe.StatusDegraded {
		t.Errorf("Status = %v, want StatusDegraded", entry.Status)
	}
	if entry.Description != "Timed out after 0.05s" {
		t.Errorf("Description = %q, want %q", entry.Description, "Timed out after 0.05s")
	}
	if entry.Err != "" {
		t.Errorf("Err = %q, a timeout is not a crash", entry.Err)
	}
	if report.Status != probe.StatusDegraded {
		t.Errorf("overall Status = %v, want StatusDegraded", report.Status)
	}
}

func TestRunner_Run_UncooperativeTimeout(t *testing.T) {
	// A probe that ignores its context still cannot stall the run.
	release := make(chan struct{})
	defer close(release)

	r := New()
	if err := r.Register(mustFunc(t, "stuck", nil, func(ctx context.Context) (probe.Result, error) {
		<-release
		return probe.Healthy(""), nil
	})); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	report, err := r.Run(context.Background(), Options{ProbeTimeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Run() took %v, the timeout did not fire", elapsed)
	}
	if report.Probes[0].Status != probe.StatusDegraded {
		t.Errorf("Status = %v, want StatusDegraded", report.Probes[0].Status)
	}
}

func TestRunner_Run_Crash(t *testing.T) {
	r := New()
	if err := r.Register(mustFunc(t, "broken", nil, func(ctx context.Context) (probe.Result, error) {
		return probe.Result{}, errors.New("connection reset")
	})); err != nil {
		t.Fatal(err)
	}

	report, err := r.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v, a probe crash must not fail the run", err)
	}

	entry := report.Probes[0]
	if entry.Status != probe.StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", entry.Status)
	}
	if entry.Description != "Exception: connection reset" {
		t.Errorf("Description = %q, want %q", entry.Description, "Exception: connection reset")
	}
	if entry.Err != "connection reset" {
		t.Errorf("Err = %q, want %q", entry.Err, "connection reset")
	}
	if report.Status != probe.StatusUnhealthy {
		t.Errorf("overall Status = %v, want StatusUnhealthy", report.Status)
	}
}

func TestRunner_Run_Panic(t *testing.T) {
	r := New()
	if err := r.Register(mustFunc(t, "panicky", nil, func(ctx context.Context) (probe.Result, error) {
		panic("index out of range")
	})); err != nil {
		t.Fatal(err)
	}

	report, err := r.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v, a panicking probe must not fail the run", err)
	}

	entry := report.Probes[0]
	if entry.Status != probe.StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", entry.Status)
	}
	if entry.Description != "Exception: panic: index out of range" {
		t.Errorf("Description = %q", entry.Description)
	}
}

func TestRunner_Run_CallerCancel(t *testing.T) {
	r := New()
	if err := r.Register(mustFunc(t, "slow", nil, func(ctx context.Context) (probe.Result, error) {
		<-ctx.Done()
		return probe.Result{}, ctx.Err()
	})); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	report, err := r.Run(ctx, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if report != nil {
		t.Error("Run() must not return a partial report on caller cancel")
	}
}

func TestRunner_Run_CancelledBeforeStart(t *testing.T) {
	var ran atomic.Bool
	r := New()
	if err := r.Register(mustFunc(t, "api", nil, func(ctx context.Context) (probe.Result, error) {
		ran.Store(true)
		return probe.Healthy(""), nil
	})); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Run(ctx, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if ran.Load() {
		t.Error("no probe should launch after cancellation")
	}
}

func TestRunner_Run_BoundedConcurrency(t *testing.T) {
	var active, peak atomic.Int64

	r := New()
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		if err := r.Register(mustFunc(t, name, nil, func(ctx context.Context) (probe.Result, error) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			active.Add(-1)
			return probe.Healthy(""), nil
		})); err != nil {
			t.Fatal(err)
		}
	}

	report, err := r.Run(context.Background(), Options{MaxConcurrency: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Summary.Total != 6 {
		t.Errorf("Summary.Total = %d, want 6", report.Summary.Total)
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}
}

func TestRunner_Run_MixedOutcomes(t *testing.T) {
	r := New()
	if err := r.Register(healthyFunc(t, "disk")); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(mustFunc(t, "cache", nil, func(ctx context.Context) (probe.Result, error) {
		select {
		case <-time.After(5 * time.Second):
			return probe.Healthy(""), nil
		case <-ctx.Done():
			return probe.Result{}, ctx.Err()
		}
	})); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(mustFunc(t, "queue", nil, func(ctx context.Context) (probe.Result, error) {
		return probe.Result{}, errors.New("broker unreachable")
	})); err != nil {
		t.Fatal(err)
	}

	report, err := r.Run(context.Background(), Options{ProbeTimeout: 50 * time.Millisecond, MaxConcurrency: 2})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != probe.StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", report.Status)
	}
	want := Summary{Total: 3, Healthy: 1, Degraded: 1, Unhealthy: 1}
	if report.Summary != want {
		t.Errorf("Summary = %+v, want %+v", report.Summary, want)
	}
	names := []string{report.Probes[0].Name, report.Probes[1].Name, report.Probes[2].Name}
	if names[0] != "cache" || names[1] != "disk" || names[2] != "queue" {
		t.Errorf("Probes = %v, want [cache disk queue]", names)
	}
}

func TestGate(t *testing.T) {
	g := newGate(0)
	if g != nil {
		t.Error("newGate(0) must return nil for unbounded runs")
	}
	if err := g.acquire(context.Background()); err != nil {
		t.Errorf("nil gate acquire error = %v", err)
	}
	g.release()
	if stats := g.stats(); stats.Limit != 0 {
		t.Errorf("nil gate stats = %+v", stats)
	}

	g = newGate(2)
	for i := 0; i < 2; i++ {
		if err := g.acquire(context.Background()); err != nil {
			t.Fatalf("acquire() error = %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := g.acquire(ctx); err == nil {
		t.Error("acquire() on a full gate must fail once the context expires")
	}

	g.release()
	g.release()

	stats := g.stats()
	if stats.Limit != 2 {
		t.Errorf("stats.Limit = %d, want 2", stats.Limit)
	}
	if stats.MaxActive != 2 {
		t.Errorf("stats.MaxActive = %d, want 2", stats.MaxActive)
	}
}
