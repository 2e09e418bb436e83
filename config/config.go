package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the top-level probe-set definition.
type File struct {
	Runner   RunnerConfig  `yaml:"runner"`
	Endpoint Endpoint      `yaml:"endpoint"`
	Probes   []ProbeConfig `yaml:"probes"`
}

// RunnerConfig holds the run options.
type RunnerConfig struct {
	TagFilter           []string `yaml:"tag_filter"`
	ProbeTimeoutSeconds float64  `yaml:"probe_timeout_seconds"`
	MaxConcurrency      int      `yaml:"max_concurrency"`
}

// ProbeTimeout returns the per-probe timeout as a duration.
func (r RunnerConfig) ProbeTimeout() time.Duration {
	return time.Duration(r.ProbeTimeoutSeconds * float64(time.Second))
}

// Endpoint holds the HTTP boundary settings.
type Endpoint struct {
	Addr           string `yaml:"addr"`
	FailOnDegraded bool   `yaml:"fail_on_degraded"`
	BearerSecret   string `yaml:"bearer_secret"`
	BearerIssuer   string `yaml:"bearer_issuer"`
	BearerAudience string `yaml:"bearer_audience"`
}

// ProbeConfig defines one probe. Type selects which section applies.
type ProbeConfig struct {
	Name string   `yaml:"name"`
	Tags []string `yaml:"tags"`
	Type string   `yaml:"type"` // disk|http|process|script

	Disk    *DiskSection    `yaml:"disk,omitempty"`
	HTTP    *HTTPSection    `yaml:"http,omitempty"`
	Process *ProcessSection `yaml:"process,omitempty"`
	Script  *ScriptSection  `yaml:"script,omitempty"`
}

// DiskSection configures a disk-space probe.
type DiskSection struct {
	Path            string  `yaml:"path"`
	WarnPercent     float64 `yaml:"warn_percent"`
	CriticalPercent float64 `yaml:"critical_percent"`
}

// HTTPSection configures an HTTP contract probe.
type HTTPSection struct {
	URL            string  `yaml:"url"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
}

// ProcessSection configures an external-process probe.
type ProcessSection struct {
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args"`
	TimeoutSeconds float64  `yaml:"timeout_seconds"`
}

// ScriptSection configures a script-backed probe.
type ScriptSection struct {
	Language string `yaml:"language"`
	Source   string `yaml:"source"`
	// SourceFile, when set, is read at build time instead of Source.
	SourceFile string `yaml:"source_file"`
	Args       []any  `yaml:"args"`
}

// Load reads, env-expands, and parses a probe-set file.
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(content)
}

// Parse env-expands and parses probe-set bytes.
func Parse(content []byte) (*File, error) {
	expanded, err := expandEnvStrict(string(content))
	if err != nil {
		return nil, fmt.Errorf("expand config: %w", err)
	}

	var f File
	if err := yaml.Unmarshal([]byte(expanded), &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks cross-field constraints the YAML schema cannot express.
func (f *File) Validate() error {
	var errs []error

	if f.Runner.ProbeTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("runner: probe_timeout_seconds must not be negative"))
	}

	seen := make(map[string]struct{}, len(f.Probes))
	for i, p := range f.Probes {
		where := fmt.Sprintf("probes[%d]", i)
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", where))
		} else {
			if _, dup := seen[p.Name]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate name %q", where, p.Name))
			}
			seen[p.Name] = struct{}{}
		}

		switch p.Type {
		case "disk":
			if p.Disk == nil {
				errs = append(errs, fmt.Errorf("%s: disk section is required", where))
			}
		case "http":
			if p.HTTP == nil || p.HTTP.URL == "" {
				errs = append(errs, fmt.Errorf("%s: http.url is required", where))
			}
		case "process":
			if p.Process == nil || p.Process.Command == "" {
				errs = append(errs, fmt.Errorf("%s: process.command is required", where))
			}
		case "script":
			if p.Script == nil || p.Script.Language == "" {
				errs = append(errs, fmt.Errorf("%s: script.language is required", where))
			} else if p.Script.Source == "" && p.Script.SourceFile == "" {
				errs = append(errs, fmt.Errorf("%s: script.source or script.source_file is required", where))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: unknown type %q", where, p.Type))
		}
	}

	return errors.Join(errs...)
}
