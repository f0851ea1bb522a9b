package cmd

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/pagesim/config"
	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/monitoring"
	"github.com/sarchlab/pagesim/report"
	"github.com/sarchlab/pagesim/simulation"
	"github.com/sarchlab/pagesim/trace"
	"github.com/sarchlab/pagesim/tracing"
	"github.com/spf13/cobra"
)

type runFlags struct {
	policies         string
	capacity         int
	enhancedCapacity int
	maxReferences    int
	logEvents        bool
	record           bool
	recordPath       string
	recordEvents     bool
	monitor          bool
	monitorPort      int
	openBrowser      bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	flags := &runFlags{}

	runCmd := &cobra.Command{
		Use:   "run [trace]",
		Short: "Run the selected policies over a trace.",
		Long: "`run trace.txt` reads one `<page> <r|w>` reference per line " +
			"and prints the faults of every selected policy. The trace may " +
			"also come from PAGESIM_TRACE. Files ending in .lz4, .sz or " +
			".snappy are decompressed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg.Clone()
			flags.apply(cmd, cfg)

			if len(args) == 1 {
				cfg.TracePath = args[0]
			}

			return runSimulation(cmd, cfg)
		},
	}

	f := runCmd.Flags()
	f.StringVar(&flags.policies, "policies", "",
		"comma-separated policies to run (default all)")
	f.IntVar(&flags.capacity, "capacity", 0,
		"frames for fifo, lru and second-chance (default 20)")
	f.IntVar(&flags.enhancedCapacity, "enhanced-capacity", 0,
		"frames for enhanced-second-chance (default 200)")
	f.IntVar(&flags.maxReferences, "max-references", 0,
		"largest trace accepted")
	f.BoolVar(&flags.logEvents, "log-events", false,
		"log every policy event at debug level")
	f.BoolVar(&flags.record, "record", false,
		"record run summaries into an SQLite database")
	f.StringVar(&flags.recordPath, "record-path", "",
		"database name, without the .sqlite3 suffix")
	f.BoolVar(&flags.recordEvents, "record-events", false,
		"also record every access, eviction and writeback")
	f.BoolVar(&flags.monitor, "monitor", false,
		"serve progress and results over HTTP")
	f.IntVar(&flags.monitorPort, "monitor-port", 0,
		"monitor port (default random)")
	f.BoolVar(&flags.openBrowser, "open-browser", false,
		"open the monitor in a browser")

	return runCmd
}

// apply overrides cfg with the flags set on the command line.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("policies") {
		cfg.Policies = config.SplitList(f.policies)
	}

	if changed("capacity") {
		cfg.Capacity = f.capacity
	}

	if changed("enhanced-capacity") {
		cfg.EnhancedCapacity = f.enhancedCapacity
	}

	if changed("max-references") {
		cfg.MaxReferences = f.maxReferences
	}

	if changed("log-events") {
		cfg.LogEvents = f.logEvents
	}

	if changed("record") {
		cfg.Record = f.record
	}

	if changed("record-path") {
		cfg.RecordPath = f.recordPath
		cfg.Record = true
	}

	if changed("record-events") {
		cfg.RecordEvents = f.recordEvents
	}

	if changed("monitor") {
		cfg.Monitor = f.monitor
	}

	if changed("monitor-port") {
		cfg.MonitorPort = f.monitorPort
	}

	if changed("open-browser") {
		cfg.OpenBrowser = f.openBrowser
	}
}

func runSimulation(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.TracePath == "" {
		return fmt.Errorf("no trace given, pass a path or set PAGESIM_TRACE")
	}

	refs, err := trace.NewLoader().
		WithMaxReferences(cfg.MaxReferences).
		Load(cfg.TracePath)
	if err != nil {
		return err
	}

	sim, err := buildSimulation(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sim.Terminate(); err != nil {
			slog.Error("closing recorder", "error", err)
		}
	}()

	if cfg.LogEvents {
		sim.RegisterHook(tracing.NewLogHook(slog.Default()))
	}

	if m := sim.GetMonitor(); m != nil {
		m.StartServer()

		if cfg.OpenBrowser {
			if err := m.OpenInBrowser(); err != nil {
				slog.Warn("cannot open browser", "error", err)
			}
		}
	}

	results, err := sim.Run(refs)
	if err != nil {
		return err
	}

	return report.NewReporter(cmd.OutOrStdout()).Report(results)
}

func buildSimulation(cfg *config.Config) (*simulation.Simulation, error) {
	b := simulation.MakeBuilder().
		WithPolicies(cfg.Policies...).
		WithTracePath(cfg.TracePath)

	for _, p := range cfg.Policies {
		b = b.WithCapacity(p, cfg.CapacityFor(p))
	}

	if cfg.Record {
		b = b.WithDataRecorder(datarecording.New(cfg.RecordPath))

		if cfg.RecordEvents {
			b = b.WithEventRecording()
		}
	}

	if cfg.Monitor {
		b = b.WithMonitor(monitoring.NewMonitor().WithPortNumber(cfg.MonitorPort))
	}

	return b.Build()
}
