package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/balansim/balansim/sim"
)

var (
	scenarioPath string
	runSeed      int64
	maxTicks     int64
)

// runCmd executes a scenario file headlessly: ticks advance as fast as they
// compute instead of on the real-time cadence, and the final metrics are
// printed to stdout.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario file to completion and print metrics",
	Run: func(cmd *cobra.Command, args []string) {
		if scenarioPath == "" {
			logrus.Fatalf("--scenario is required")
		}
		sc, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}
		if cmd.Flags().Changed("max-ticks") {
			sc.MaxTicks = maxTicks
		}

		cfg := sim.DefaultConfig()
		cfg.Seed = runSeed
		engine := sim.NewEngine(cfg)

		startTime := time.Now()
		steps, err := engine.RunScenario(sc)
		if err != nil {
			logrus.Fatalf("Scenario failed: %v", err)
		}

		if !engine.Finished() {
			logrus.Warnf("Scenario stopped after %d ticks without completing", steps)
			return
		}
		engine.Metrics().Print(engine.Tick(), time.Since(startTime))
	},
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to scenario YAML file")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Seed for random task generation")
	runCmd.Flags().Int64Var(&maxTicks, "max-ticks", 0, "Stop after this many ticks (0 = run to completion)")

	rootCmd.AddCommand(runCmd)
}
