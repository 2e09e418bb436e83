package probe

import (
	"context"
	"fmt"
)

// DiskConfig configures the disk-space probe.
type DiskConfig struct {
	// Path is the mount point or directory to inspect.
	// Default: "/"
	Path string

	// WarnPercent is the free-space percentage below which the probe
	// reports degraded.
	WarnPercent float64

	// CriticalPercent is the free-space percentage below which the probe
	// reports unhealthy. Must satisfy 0 < CriticalPercent < WarnPercent <= 100.
	CriticalPercent float64
}

// DiskProbe reports on free disk space for a volume.
type DiskProbe struct {
	name   string
	tags   []string
	config DiskConfig

	// statfs is swappable for tests.
	statfs func(path string) (free, total uint64, err error)
}

// NewDiskProbe creates a disk-space probe. Construction fails unless the
// thresholds satisfy 0 < critical < warn <= 100.
func NewDiskProbe(name string, tags []string, config DiskConfig) (*DiskProbe, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if config.CriticalPercent <= 0 || config.CriticalPercent >= config.WarnPercent || config.WarnPercent > 100 {
		return nil, fmt.Errorf("%w: critical=%g warn=%g", ErrBadThresholds, config.CriticalPercent, config.WarnPercent)
	}
	if config.Path == "" {
		config.Path = "/"
	}

	return &DiskProbe{
		name:   name,
		tags:   NormalizeTags(tags),
		config: config,
		statfs: statfs,
	}, nil
}

// Name returns the probe name.
func (d *DiskProbe) Name() string {
	return d.name
}

// Tags returns the probe's tag set.
func (d *DiskProbe) Tags() []string {
	return d.tags
}

// Check reports the volume's free-space percentage against the configured
// thresholds. A missing or unready volume is an unhealthy result, never an
// error.
func (d *DiskProbe) Check(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	free, total, err := d.statfs(d.config.Path)
	if err != nil {
		return Unhealthy(fmt.Sprintf("volume %q unavailable: %v", d.config.Path, err)), nil
	}
	if total == 0 {
		return Unhealthy(fmt.Sprintf("volume %q reports zero capacity", d.config.Path)), nil
	}

	freePercent := float64(free) / float64(total) * 100

	data := map[string]any{
		"path":         d.config.Path,
		"free_bytes":   free,
		"total_bytes":  total,
		"free_percent": freePercent,
	}

	description := fmt.Sprintf("%.1f%% free on %s", freePercent, d.config.Path)

	switch {
	case freePercent < d.config.CriticalPercent:
		return Unhealthy(description).WithData(data), nil
	case freePercent < d.config.WarnPercent:
		return Degraded(description).WithData(data), nil
	default:
		return Healthy(description).WithData(data), nil
	}
}
