package config

import (
	"fmt"
	"os"
	"time"

	"github.com/probeops/healthprobe/probe"
	"github.com/probeops/healthprobe/script"
)

// Build materializes the configured probe set. Script-backed probes
// resolve their engines against the supplied registry; a nil registry is
// only valid for files without script probes.
func Build(f *File, engines *script.Registry) ([]probe.Probe, error) {
	probes := make([]probe.Probe, 0, len(f.Probes))

	for _, pc := range f.Probes {
		p, err := buildProbe(pc, engines)
		if err != nil {
			return nil, fmt.Errorf("probe %q: %w", pc.Name, err)
		}
		probes = append(probes, p)
	}
	return probes, nil
}

func buildProbe(pc ProbeConfig, engines *script.Registry) (probe.Probe, error) {
	switch pc.Type {
	case "disk":
		return probe.NewDiskProbe(pc.Name, pc.Tags, probe.DiskConfig{
			Path:            pc.Disk.Path,
			WarnPercent:     pc.Disk.WarnPercent,
			CriticalPercent: pc.Disk.CriticalPercent,
		})

	case "http":
		return probe.NewHTTPProbe(pc.Name, pc.Tags, probe.HTTPConfig{
			URL:     pc.HTTP.URL,
			Timeout: seconds(pc.HTTP.TimeoutSeconds),
		})

	case "process":
		return probe.NewProcessProbe(pc.Name, pc.Tags, probe.ProcessConfig{
			Command: pc.Process.Command,
			Args:    pc.Process.Args,
			Timeout: seconds(pc.Process.TimeoutSeconds),
		})

	case "script":
		if engines == nil {
			return nil, fmt.Errorf("no script engines available")
		}
		source := pc.Script.Source
		if source == "" {
			content, err := os.ReadFile(pc.Script.SourceFile)
			if err != nil {
				return nil, fmt.Errorf("read script source: %w", err)
			}
			source = string(content)
		}
		return script.New(engines, script.Config{
			Name:     pc.Name,
			Tags:     pc.Tags,
			Language: pc.Script.Language,
			Source:   source,
			Args:     pc.Script.Args,
		})

	default:
		return nil, fmt.Errorf("unknown type %q", pc.Type)
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
