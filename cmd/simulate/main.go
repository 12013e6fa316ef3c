package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milk9111/utilityai/sim"
)

var (
	cfgFile     string
	ticks       int
	workers     int
	verbose     bool
	reportEvery int
)

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Headless utility-AI agent simulation",
	Long: `simulate runs a world of agents that get thirstier and hungrier over
time while their thinkers decide between drinking, eating and wandering.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := buildLogger()
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg := sim.DefaultScenario()
		if cfgFile != "" {
			cfg, err = sim.LoadScenario(cfgFile)
			if err != nil {
				return err
			}
			log.Info("scenario loaded", zap.String("path", cfgFile))
		}

		s, err := sim.NewSim(cfg, log, workers)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("simulation starting",
			zap.Int("agents", cfg.Agents),
			zap.Int("ticks", ticks),
			zap.Int("workers", workers))

		for i := 0; i < ticks; i++ {
			if err := s.Tick(ctx); err != nil {
				return fmt.Errorf("tick %d: %w", i, err)
			}
			if reportEvery > 0 && (i+1)%reportEvery == 0 {
				for _, r := range s.Report() {
					log.Info("agent",
						zap.String("name", r.Name),
						zap.Float64("x", r.X),
						zap.Float64("y", r.Y),
						zap.Float64("thirst", r.Thirst),
						zap.Float64("hunger", r.Hunger),
						zap.String("doing", r.Doing),
						zap.Stringer("state", r.State))
				}
			}
		}

		log.Info("simulation finished", zap.Uint64("ticks", s.Ticks()))
		return nil
	},
}

func buildLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func init() {
	runCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "scenario YAML file (defaults apply when omitted)")
	runCmd.Flags().IntVarP(&ticks, "ticks", "t", 3600, "number of simulation ticks to run")
	runCmd.Flags().IntVarP(&workers, "workers", "w", 0, "decision parallelism, 0 for unlimited")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	runCmd.Flags().IntVar(&reportEvery, "report-every", 600, "log agent reports every N ticks, 0 to disable")
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
