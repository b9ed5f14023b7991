package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/windpark-sim/windpark-sim/sim"
)

var (
	// CLI flags; non-zero values override the scenario file
	scenarioFile string // Path to the scenario YAML
	logLevel     string // Log verbosity level
	duration     int64  // Simulated seconds
	maxFeedin    float64
	archiveFile  string // Where the run archive is written
	containers   int    // Number of agent containers (0 = NumCPU)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "windpark-sim",
	Short: "Discrete-time wind park simulation with an agent-based feed-in controller",
}

// runCmd executes a scenario from a YAML file, with CLI flag overrides
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a wind park scenario",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		scenario, err := sim.LoadScenario(scenarioFile)
		if err != nil {
			logrus.Fatalf("Cannot load scenario: %v", err)
		}
		applyOverrides(scenario)
		if err := scenario.Validate(); err != nil {
			logrus.Fatalf("Invalid scenario: %v", err)
		}

		logrus.Infof("Starting run: %d WECS, duration=%ds, step=%ds, max_feedin=%.0f kW",
			len(scenario.WecsConfigs()), scenario.Duration, scenario.StepSize, scenario.Controller.MaxFeedin)

		startTime := time.Now()
		summary, err := runScenario(scenario)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}

		fmt.Printf("steps: %d\n", summary.Steps)
		fmt.Printf("wecs: %d\n", summary.Wecs)
		fmt.Printf("mean feed-in: %.1f kW\n", summary.MeanFeedin)
		fmt.Printf("max feed-in: %.1f kW\n", summary.MaxFeedin)
		fmt.Printf("capped steps: %d\n", summary.CappedSteps)
		logrus.Infof("Run complete in %s, archive at %s", time.Since(startTime), scenario.ArchiveFile)
	},
}

// applyOverrides copies set CLI flags over the loaded scenario.
func applyOverrides(scenario *sim.Scenario) {
	if duration > 0 {
		scenario.Duration = duration
	}
	if maxFeedin > 0 {
		scenario.Controller.MaxFeedin = maxFeedin
	}
	if archiveFile != "" {
		scenario.ArchiveFile = archiveFile
	}
	if containers > 0 {
		scenario.Containers = containers
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "scenario.yaml", "Scenario YAML file")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Int64Var(&duration, "duration", 0, "Override scenario duration (seconds)")
	runCmd.Flags().Float64Var(&maxFeedin, "max-feedin", 0, "Override the park feed-in limit (kW)")
	runCmd.Flags().StringVar(&archiveFile, "archive", "", "Override the archive output path")
	runCmd.Flags().IntVar(&containers, "containers", 0, "Number of agent containers (0 = one per CPU core)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
