package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/balansim/balansim/server"
	"github.com/balansim/balansim/sim"
)

var (
	serveAddr    string
	configPath   string
	processors   int
	tickInterval time.Duration
	seed         int64
)

// serveCmd runs the simulation engine with its HTTP surface. The tick loop
// advances in the background while HTTP handlers feed commands in.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the load-balancing simulator behind an HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := sim.DefaultConfig()
		if configPath != "" {
			loaded, err := sim.LoadConfig(configPath)
			if err != nil {
				logrus.Fatalf("Failed to load config: %v", err)
			}
			cfg = loaded
		}
		// Flags override the config file.
		if cmd.Flags().Changed("processors") {
			cfg.Processors = processors
		}
		if cmd.Flags().Changed("tick-interval") {
			cfg.TickInterval = tickInterval
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		engine := sim.NewEngine(cfg)
		srv := server.New(engine, serveAddr)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go engine.Run(ctx)

		go func() {
			if err := srv.Serve(); err != nil {
				logrus.Fatalf("HTTP server failed: %v", err)
			}
		}()

		logrus.Infof("Simulator ready: %d processors, tick every %v", cfg.Processors, cfg.TickInterval)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		cancel()
		if err := srv.Shutdown(); err != nil {
			logrus.Fatalf("Shutdown failed: %v", err)
		}
		logrus.Info("Done.")
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "0.0.0.0:8000", "HTTP listen address")
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
	serveCmd.Flags().IntVar(&processors, "processors", 4, "Number of processors in the pool")
	serveCmd.Flags().DurationVar(&tickInterval, "tick-interval", 500*time.Millisecond, "Real-time duration of one tick")
	serveCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random task generation")

	rootCmd.AddCommand(serveCmd)
}
