package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/probeops/healthprobe/config"
	"github.com/probeops/healthprobe/observe"
	"github.com/probeops/healthprobe/render"
	"github.com/probeops/healthprobe/runner"
)

var checkFlags struct {
	configPath string
	tags       []string
	output     string
	logLevel   string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the probe set once and print the report",
	Long: `Run the probe set once and print the report.

The exit code mirrors the overall status: 0 healthy, 1 degraded,
2 unhealthy.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFlags.configPath, "config", "c", "healthprobe.yaml", "probe-set file")
	checkCmd.Flags().StringSliceVarP(&checkFlags.tags, "tags", "t", nil, "override the configured tag filter")
	checkCmd.Flags().StringVarP(&checkFlags.output, "output", "o", "text", "output format: text|json")
	checkCmd.Flags().StringVar(&checkFlags.logLevel, "log-level", "", "enable structured logging at this level")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	f, err := config.Load(checkFlags.configPath)
	if err != nil {
		return err
	}

	probes, err := config.Build(f, nil)
	if err != nil {
		return err
	}

	logger := observe.NopLogger()
	if checkFlags.logLevel != "" {
		logger = observe.NewLogger(checkFlags.logLevel)
	}

	r := runner.New(runner.Config{Logger: logger})
	for _, p := range probes {
		if err := r.Register(p); err != nil {
			return err
		}
	}

	opts := runner.Options{
		TagFilter:      f.Runner.TagFilter,
		ProbeTimeout:   f.Runner.ProbeTimeout(),
		MaxConcurrency: f.Runner.MaxConcurrency,
	}
	if len(checkFlags.tags) > 0 {
		opts.TagFilter = checkFlags.tags
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, err := r.Run(ctx, opts)
	if err != nil {
		return err
	}

	switch checkFlags.output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	case "text":
		if err := render.WriteText(os.Stdout, report); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", checkFlags.output)
	}

	os.Exit(exitCode(report))
	return nil
}

// exitCode mirrors the process-probe convention: 0 healthy, 1 degraded,
// 2 unhealthy.
func exitCode(report *runner.Report) int {
	return int(report.Status)
}
