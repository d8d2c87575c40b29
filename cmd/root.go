package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/homeload/config"
	"github.com/kilianp07/homeload/core/consumption"
	"github.com/kilianp07/homeload/infra/logger"
)

var (
	cfgPath string
	seed    int64
)

var rootCmd = &cobra.Command{
	Use:          "homeload",
	Short:        "Household consumption event scheduler",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "site.yaml", "site configuration file")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed, overrides the configured one (0 keeps it)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// site is a loaded and validated site configuration.
type site struct {
	cfg      *config.Config
	requests consumption.Requests
	seed     int64
}

// checkTriggers reports dangling triggers and trigger loops together.
func checkTriggers(reqs consumption.Requests) error {
	if err := errors.Join(reqs.CheckTriggers(), reqs.CheckCycles()); err != nil {
		return fmt.Errorf("invalid triggers: %w", err)
	}
	return nil
}

// loadSite reads the configuration, configures logging on the command's
// stderr and resolves the seed. A zero seed is replaced by the clock and
// logged so the run can be reproduced.
func loadSite(cmd *cobra.Command) (*site, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Logging.Apply(cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	reqs, err := cfg.Requests()
	if err != nil {
		return nil, fmt.Errorf("invalid consumption: %w", err)
	}
	if err := checkTriggers(reqs); err != nil {
		return nil, err
	}
	s := &site{cfg: cfg, requests: reqs, seed: cfg.Seed}
	if cmd.Flags().Changed("seed") && seed != 0 {
		s.seed = seed
	}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	logger.New("main").Infof("loaded %d requests from %s, seed %d", reqs.Len(), cfgPath, s.seed)
	return s, nil
}
